package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/storage"
)

// withTx runs fn inside a transaction and commits it only when fn returns
// nil; any error rolls everything back.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func validateLeagueDates(reg, start, end time.Time) error {
	if reg.IsZero() || start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: registration, start and end dates are required", ErrValidationFailed)
	}
	if reg.After(start) {
		return fmt.Errorf("%w: registration closes at %s, after the start date %s",
			ErrLeagueInvalidRegDate, reg.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return ErrLeagueInvalidDates
	}
	return nil
}

func isValidLeagueStatusTransition(current, next models.LeagueStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.LeagueStatus][]models.LeagueStatus{
		models.LeagueStatusSoon:         {models.LeagueStatusRegistration, models.LeagueStatusCanceled},
		models.LeagueStatusRegistration: {models.LeagueStatusActive, models.LeagueStatusCanceled},
		models.LeagueStatusActive:       {models.LeagueStatusCompleted, models.LeagueStatusCanceled},
		models.LeagueStatusCompleted:    {},
		models.LeagueStatusCanceled:     {},
	}
	for _, status := range allowed[current] {
		if next == status {
			return true
		}
	}
	return false
}

func populateUserDetails(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*user.AvatarKey); url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
}

func populateLeagueLogoURL(league *models.League, uploader storage.FileUploader) {
	if league != nil && league.LogoKey != nil && *league.LogoKey != "" && uploader != nil {
		if url := uploader.GetPublicURL(*league.LogoKey); url != "" {
			league.LogoURL = &url
		}
	}
}

func populateParticipantListDetails(participants []*models.Participant, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for _, p := range participants {
		if p == nil {
			continue
		}
		populateUserDetails(p.User, uploader)
		populateTeamLogoURL(p.Team, uploader)
	}
}

// participantDisplayName names a participant for exports and notifications.
func participantDisplayName(p *models.Participant) string {
	if p == nil {
		return "Unknown"
	}
	if p.User != nil {
		name := strings.TrimSpace(p.User.FirstName + " " + p.User.LastName)
		if name != "" {
			return name
		}
	}
	if p.Team != nil && p.Team.Name != "" {
		return p.Team.Name
	}
	return fmt.Sprintf("Participant %d", p.ID)
}

func imageExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: unsupported image content type %q", ErrValidationFailed, contentType)
	}
}
