package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtline/league-system/fixtures"
	"github.com/courtline/league-system/live"
	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/scoring"
)

// roundInterval is the calendar gap between consecutive rounds.
const roundInterval = 7 * 24 * time.Hour

type ScheduleService interface {
	// Generate builds the full round-robin schedule for a league from its
	// confirmed participants and activates the league. It can be run at
	// most once per league.
	Generate(ctx context.Context, leagueID, currentUserID int) ([]*models.Match, error)
	ListMatches(ctx context.Context, leagueID int, roundFilter *int) ([]*models.Match, error)
}

type scheduleService struct {
	db              *sql.DB
	leagueRepo      repositories.LeagueRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	userRepo        repositories.UserRepository
	generator       fixtures.Generator
	hub             *live.Hub
}

func NewScheduleService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	generator fixtures.Generator,
	hub *live.Hub,
) ScheduleService {
	return &scheduleService{
		db:              db,
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		userRepo:        userRepo,
		generator:       generator,
		hub:             hub,
	}
}

func (s *scheduleService) Generate(ctx context.Context, leagueID, currentUserID int) ([]*models.Match, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}
	if err := s.requireOrganizer(ctx, league, currentUserID); err != nil {
		return nil, err
	}
	if league.Status != models.LeagueStatusRegistration {
		return nil, fmt.Errorf("%w: schedule generation requires the registration status, league is %s",
			ErrValidationFailed, league.Status)
	}

	existing, err := s.matchRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrScheduleAlreadyGenerated
	}

	confirmed := models.ParticipantConfirmed
	participants, err := s.participantRepo.ListByLeague(ctx, leagueID, &confirmed, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed participants of league %d: %w", leagueID, err)
	}
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	ids := make([]int, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}

	plan := s.generator.Generate(ids)
	matches := make([]*models.Match, 0, len(plan))
	for _, fixture := range plan {
		matches = append(matches, &models.Match{
			LeagueID:          leagueID,
			HomeParticipantID: fixture.HomeID,
			AwayParticipantID: fixture.AwayID,
			Round:             fixture.Round,
			MatchTime:         league.StartDate.Add(time.Duration(fixture.Round-1) * roundInterval),
			Status:            models.MatchStatusScheduled,
			ScoringStatus:     scoring.ScoringPending,
		})
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.matchRepo.CreateBatch(ctx, tx, matches); txErr != nil {
			return fmt.Errorf("failed to persist schedule: %w", txErr)
		}
		return s.leagueRepo.UpdateStatus(ctx, tx, leagueID, models.LeagueStatusActive)
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.LeagueRoom(leagueID), live.Event{
			Type: live.EventScheduleGenerated,
			Payload: map[string]interface{}{
				"league_id":   leagueID,
				"match_count": len(matches),
				"rounds":      matches[len(matches)-1].Round,
			},
		})
	}
	return matches, nil
}

func (s *scheduleService) ListMatches(ctx context.Context, leagueID int, roundFilter *int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByLeague(ctx, leagueID, roundFilter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of league %d: %w", leagueID, err)
	}
	return matches, nil
}

func (s *scheduleService) requireOrganizer(ctx context.Context, league *models.League, userID int) error {
	if league.OrganizerID == userID {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return nil
	}
	return ErrOrganizerOnly
}
