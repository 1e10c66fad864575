package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtline/league-system/live"
	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/scoring"
)

// ScoreService orchestrates the match result lifecycle: participant score
// reports, organizer approval, manual entry and post-finalization edits.
// Every rule decision is delegated to the scoring package; this layer only
// resolves identities, persists outcomes and publishes events.
type ScoreService interface {
	SubmitReport(ctx context.Context, matchID, userID int, sets []scoring.SetScore) (*models.Match, *models.ScoreReport, error)
	ListReports(ctx context.Context, matchID int) ([]*models.ScoreReport, error)
	Approve(ctx context.Context, matchID, reportID, approverID int) (*models.Match, error)
	EnterManually(ctx context.Context, matchID, approverID int, sets []scoring.SetScore) (*models.Match, error)
	EditFinal(ctx context.Context, matchID, editorID int, sets []scoring.SetScore) (*models.Match, error)
}

type scoreService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	reportRepo      repositories.ScoreReportRepository
	participantRepo repositories.ParticipantRepository
	leagueRepo      repositories.LeagueRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	hub             *live.Hub
	email           *EmailService
	publicURL       string
	logger          *slog.Logger
}

func NewScoreService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	reportRepo repositories.ScoreReportRepository,
	participantRepo repositories.ParticipantRepository,
	leagueRepo repositories.LeagueRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
	email *EmailService,
	publicURL string,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		db:              db,
		matchRepo:       matchRepo,
		reportRepo:      reportRepo,
		participantRepo: participantRepo,
		leagueRepo:      leagueRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		hub:             hub,
		email:           email,
		publicURL:       publicURL,
		logger:          logger,
	}
}

func (s *scoreService) SubmitReport(ctx context.Context, matchID, userID int, sets []scoring.SetScore) (*models.Match, *models.ScoreReport, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	participant, err := s.resolveReporter(ctx, match.LeagueID, userID)
	if err != nil {
		return nil, nil, err
	}
	side, ok := match.Side(participant.ID)
	if !ok {
		return nil, nil, ErrNotMatchParticipant
	}

	newStatus, err := scoring.SubmitReport(match.ScoringStatus, side, sets, match.Playable(time.Now()))
	if err != nil {
		return nil, nil, mapScoringError(err)
	}

	// Totals are stored in the reporter's frame, same as the raw sets.
	totals := scoring.ToHomeAway(sets, true)
	report := &models.ScoreReport{
		MatchID:               match.ID,
		ReporterParticipantID: participant.ID,
		Sets:                  sets,
		SetsWon:               totals.SetsWonHome,
		SetsLost:              totals.SetsWonAway,
		GamesWon:              totals.GamesWonHome,
		GamesLost:             totals.GamesWonAway,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.reportRepo.Upsert(ctx, tx, report); txErr != nil {
			return fmt.Errorf("failed to store score report: %w", txErr)
		}
		if newStatus == match.ScoringStatus {
			return nil
		}
		txErr := s.matchRepo.UpdateScoringStatus(ctx, tx, match.ID, match.ScoringStatus, newStatus)
		if errors.Is(txErr, repositories.ErrMatchScoringConflict) {
			return ErrScoringConflict
		}
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}

	match.ScoringStatus = newStatus
	s.publish(match.LeagueID, live.EventScoreReported, map[string]interface{}{
		"match_id":       match.ID,
		"scoring_status": match.ScoringStatus,
		"reporter_id":    participant.ID,
	})
	return match, report, nil
}

func (s *scoreService) ListReports(ctx context.Context, matchID int) ([]*models.ScoreReport, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list score reports of match %d: %w", matchID, err)
	}
	return reports, nil
}

func (s *scoreService) Approve(ctx context.Context, matchID, reportID, approverID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, match.LeagueID, approverID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrScoreReportNotFound) {
			return nil, ErrScoreReportNotFound
		}
		return nil, fmt.Errorf("failed to load score report %d: %w", reportID, err)
	}
	if _, partOfMatch := match.Side(report.ReporterParticipantID); report.MatchID != match.ID || !partOfMatch {
		return nil, ErrReportNotForMatch
	}
	reporterIsHome := report.ReporterParticipantID == match.HomeParticipantID

	final, err := scoring.Approve(match.ScoringStatus, scoring.Report{
		ID:      report.ID,
		MatchID: report.MatchID,
		Sets:    report.Sets,
	}, match.ID, reporterIsHome)
	if err != nil {
		return nil, mapScoringError(err)
	}

	now := time.Now()
	err = s.matchRepo.Finalize(ctx, s.db, repositories.FinalizeMatchParams{
		MatchID:            match.ID,
		ExpectedStatus:     match.ScoringStatus,
		NewStatus:          final.Status,
		FinalScoreReportID: final.ReportID,
		SetsWonHome:        final.SetsWonHome,
		SetsWonAway:        final.SetsWonAway,
		GamesWonHome:       final.GamesWonHome,
		GamesWonAway:       final.GamesWonAway,
		ApprovedBy:         approverID,
		ApprovedAt:         now,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchScoringConflict) {
			return nil, ErrScoringConflict
		}
		return nil, err
	}

	s.applyFinal(match, final, approverID, now)
	s.publishFinalized(match)
	s.notifyFinalized(ctx, match)
	return match, nil
}

func (s *scoreService) EnterManually(ctx context.Context, matchID, approverID int, sets []scoring.SetScore) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, match.LeagueID, approverID); err != nil {
		return nil, err
	}

	final, err := scoring.EnterManually(match.ScoringStatus, sets)
	if err != nil {
		return nil, mapScoringError(err)
	}

	now := time.Now()
	err = s.matchRepo.Finalize(ctx, s.db, repositories.FinalizeMatchParams{
		MatchID:        match.ID,
		ExpectedStatus: match.ScoringStatus,
		NewStatus:      final.Status,
		SetsWonHome:    final.SetsWonHome,
		SetsWonAway:    final.SetsWonAway,
		GamesWonHome:   final.GamesWonHome,
		GamesWonAway:   final.GamesWonAway,
		ApprovedBy:     approverID,
		ApprovedAt:     now,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchScoringConflict) {
			return nil, ErrScoringConflict
		}
		return nil, err
	}

	s.applyFinal(match, final, approverID, now)
	s.publishFinalized(match)
	s.notifyFinalized(ctx, match)
	return match, nil
}

func (s *scoreService) EditFinal(ctx context.Context, matchID, editorID int, sets []scoring.SetScore) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, match.LeagueID, editorID); err != nil {
		return nil, err
	}

	final, err := scoring.EditFinal(match.ScoringStatus, sets)
	if err != nil {
		return nil, mapScoringError(err)
	}

	err = s.matchRepo.UpdateFinalTotals(ctx, match.ID, match.ScoringStatus,
		final.SetsWonHome, final.SetsWonAway, final.GamesWonHome, final.GamesWonAway)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchScoringConflict) {
			return nil, ErrScoringConflict
		}
		return nil, err
	}

	match.FinalScoreReportID = nil
	match.SetsWonHome = &final.SetsWonHome
	match.SetsWonAway = &final.SetsWonAway
	match.GamesWonHome = &final.GamesWonHome
	match.GamesWonAway = &final.GamesWonAway
	s.publishFinalized(match)
	return match, nil
}

func (s *scoreService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

// resolveReporter maps an authenticated user to the participant they act
// for inside the given league: themselves in a solo league, their team in a
// team league.
func (s *scoreService) resolveReporter(ctx context.Context, leagueID, userID int) (*models.Participant, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}

	if league.ParticipantType == models.LeagueParticipantSolo {
		participant, err := s.participantRepo.FindByUserAndLeague(ctx, userID, leagueID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return nil, ErrNotMatchParticipant
			}
			return nil, fmt.Errorf("failed to resolve solo participant: %w", err)
		}
		return participant, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.TeamID == nil {
		return nil, ErrNotMatchParticipant
	}
	participant, err := s.participantRepo.FindByTeamAndLeague(ctx, *user.TeamID, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotMatchParticipant
		}
		return nil, fmt.Errorf("failed to resolve team participant: %w", err)
	}
	return participant, nil
}

func (s *scoreService) requireOrganizer(ctx context.Context, leagueID, userID int) error {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return ErrLeagueNotFound
		}
		return fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}
	if league.OrganizerID == userID {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return nil
	}
	return ErrOrganizerOnly
}

func (s *scoreService) applyFinal(match *models.Match, final *scoring.FinalizedResult, approverID int, approvedAt time.Time) {
	match.ScoringStatus = final.Status
	match.Status = models.MatchStatusCompleted
	match.FinalScoreReportID = final.ReportID
	match.SetsWonHome = &final.SetsWonHome
	match.SetsWonAway = &final.SetsWonAway
	match.GamesWonHome = &final.GamesWonHome
	match.GamesWonAway = &final.GamesWonAway
	match.ApprovedBy = &approverID
	match.ApprovedAt = &approvedAt
}

func (s *scoreService) publishFinalized(match *models.Match) {
	s.publish(match.LeagueID, live.EventResultFinalized, map[string]interface{}{
		"match_id":       match.ID,
		"scoring_status": match.ScoringStatus,
		"sets_won_home":  match.SetsWonHome,
		"sets_won_away":  match.SetsWonAway,
	})
}

// notifyFinalized mails both sides of the match. Delivery is best effort;
// the result stands whether or not the mails go out.
func (s *scoreService) notifyFinalized(ctx context.Context, match *models.Match) {
	if s.email == nil || match.SetsWonHome == nil || match.SetsWonAway == nil {
		return
	}
	league, err := s.leagueRepo.GetByID(ctx, match.LeagueID)
	if err != nil {
		s.logWarn("failed to load league for result notification", match.ID, err)
		return
	}

	homeName, homeEmail := s.participantContact(ctx, match.HomeParticipantID)
	awayName, awayEmail := s.participantContact(ctx, match.AwayParticipantID)
	link := fmt.Sprintf("%s/leagues/%d", s.publicURL, league.ID)

	for _, recipient := range []string{homeEmail, awayEmail} {
		if recipient == "" {
			continue
		}
		err := s.email.SendResultFinalizedEmail(recipient, league.Name, homeName, awayName,
			*match.SetsWonHome, *match.SetsWonAway, link)
		if err != nil {
			s.logWarn("failed to send result notification", match.ID, err)
		}
	}
}

// participantContact resolves a display name and a notification address:
// the player in a solo league, the team captain in a team league.
func (s *scoreService) participantContact(ctx context.Context, participantID int) (string, string) {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return "", ""
	}
	if participant.UserID != nil {
		if user, err := s.userRepo.GetByID(ctx, *participant.UserID); err == nil {
			participant.User = user
			return participantDisplayName(participant), user.Email
		}
	}
	if participant.TeamID != nil {
		if team, err := s.teamRepo.GetByID(ctx, *participant.TeamID); err == nil {
			participant.Team = team
			if captain, err := s.userRepo.GetByID(ctx, team.CaptainID); err == nil {
				return team.Name, captain.Email
			}
			return team.Name, ""
		}
	}
	return participantDisplayName(participant), ""
}

func (s *scoreService) logWarn(msg string, matchID int, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Int("match_id", matchID), slog.Any("error", err))
	}
}

func (s *scoreService) publish(leagueID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.LeagueRoom(leagueID), live.Event{Type: eventType, Payload: payload})
}

// mapScoringError translates rule and transition errors from the scoring
// package into service sentinels where a stable HTTP mapping exists.
// Validation errors pass through untouched so handlers can surface the set
// number and the exact rule that failed.
func mapScoringError(err error) error {
	var precondition *scoring.PreconditionError
	if errors.As(err, &precondition) {
		return ErrMatchNotPlayable
	}

	switch {
	case errors.Is(err, scoring.ErrAlreadyFinalized):
		return ErrMatchAlreadyFinalized
	case errors.Is(err, scoring.ErrNotFinalized):
		return ErrMatchNotFinalized
	case errors.Is(err, scoring.ErrBothReportsRequired):
		return ErrBothReportsRequired
	case errors.Is(err, scoring.ErrReportMismatch):
		return ErrReportNotForMatch
	}
	return err
}
