package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/courtline/league-system/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

var teamInviteTemplate = template.Must(template.New("team_invite").Parse(`
<p>You have been invited to join the team <strong>{{.TeamName}}</strong>.</p>
<p><a href="{{.InviteLink}}">Accept the invitation</a></p>
<p>The link expires in 7 days.</p>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<p>Hi {{.FirstName}},</p>
<p>Your account has been created. Join a team or register for a league to get
on court.</p>
<p><a href="{{.Link}}">Open the league portal</a></p>`))

var resultFinalizedTemplate = template.Must(template.New("result_finalized").Parse(`
<p>The result of your match in <strong>{{.LeagueName}}</strong> has been finalized:</p>
<p>{{.HomeName}} {{.SetsHome}} : {{.SetsAway}} {{.AwayName}}</p>
<p><a href="{{.Link}}">View the league</a></p>`))

func (s *EmailService) SendTeamInviteEmail(userEmail, teamName, inviteLink string) error {
	body, err := renderTemplate(teamInviteTemplate, struct {
		TeamName   string
		InviteLink string
	}{teamName, inviteLink})
	if err != nil {
		return err
	}
	return s.send([]string{userEmail}, fmt.Sprintf("Invitation to team %s", teamName), body)
}

func (s *EmailService) SendWelcomeEmail(userEmail, firstName, link string) error {
	body, err := renderTemplate(welcomeTemplate, struct {
		FirstName string
		Link      string
	}{firstName, link})
	if err != nil {
		return err
	}
	return s.send([]string{userEmail}, "Welcome to the league", body)
}

func (s *EmailService) SendResultFinalizedEmail(userEmail, leagueName, homeName, awayName string, setsHome, setsAway int, link string) error {
	body, err := renderTemplate(resultFinalizedTemplate, struct {
		LeagueName string
		HomeName   string
		AwayName   string
		SetsHome   int
		SetsAway   int
		Link       string
	}{leagueName, homeName, awayName, setsHome, setsAway, link})
	if err != nil {
		return err
	}
	return s.send([]string{userEmail}, fmt.Sprintf("Match result finalized in %s", leagueName), body)
}

func renderTemplate(t *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", t.Name(), err)
	}
	return body.String(), nil
}

// send delivers one HTML message over SMTP, using implicit TLS on port 465
// and STARTTLS otherwise.
func (s *EmailService) send(to []string, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client creation failed: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt to failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write failed: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp data close failed: %w", err)
	}
	return nil
}
