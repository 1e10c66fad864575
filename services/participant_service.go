package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/storage"
)

type ParticipantService interface {
	// Register applies the current user (or their team, in a team league)
	// for a league. Applications need organizer confirmation before they
	// count toward the roster.
	Register(ctx context.Context, leagueID, currentUserID int) (*models.Participant, error)
	List(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error)
	SetStatus(ctx context.Context, participantID, currentUserID int, status models.ParticipantStatus) (*models.Participant, error)
	Withdraw(ctx context.Context, participantID, currentUserID int) error
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	leagueRepo      repositories.LeagueRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	uploader        storage.FileUploader
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	leagueRepo repositories.LeagueRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		leagueRepo:      leagueRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		uploader:        uploader,
	}
}

func (s *participantService) Register(ctx context.Context, leagueID, currentUserID int) (*models.Participant, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}
	if league.Status != models.LeagueStatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	confirmed := models.ParticipantConfirmed
	count, err := s.participantRepo.CountByLeague(ctx, leagueID, &confirmed)
	if err != nil {
		return nil, err
	}
	if count >= league.MaxParticipants {
		return nil, ErrLeagueFull
	}

	participant := &models.Participant{
		LeagueID: leagueID,
		Status:   models.ParticipantApplied,
	}

	if league.ParticipantType == models.LeagueParticipantSolo {
		userID := currentUserID
		participant.UserID = &userID
	} else {
		user, err := s.userRepo.GetByID(ctx, currentUserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get user %d: %w", currentUserID, err)
		}
		if user.TeamID == nil {
			return nil, ErrUserNotInTeam
		}
		// Only the captain commits a team to a league.
		team, err := s.teamRepo.GetByID(ctx, *user.TeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team %d: %w", *user.TeamID, err)
		}
		if team.CaptainID != currentUserID {
			return nil, ErrCaptainActionForbidden
		}
		participant.TeamID = &team.ID
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrParticipantLeagueInvalid):
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}
	return participant, nil
}

func (s *participantService) List(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	participants, err := s.participantRepo.ListByLeague(ctx, leagueID, statusFilter, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of league %d: %w", leagueID, err)
	}
	populateParticipantListDetails(participants, s.uploader)
	return participants, nil
}

func (s *participantService) SetStatus(ctx context.Context, participantID, currentUserID int, status models.ParticipantStatus) (*models.Participant, error) {
	if status != models.ParticipantConfirmed && status != models.ParticipantRejected {
		return nil, fmt.Errorf("%w: status must be confirmed or rejected", ErrValidationFailed)
	}

	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}

	league, err := s.leagueRepo.GetByID(ctx, participant.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league %d: %w", participant.LeagueID, err)
	}
	if league.OrganizerID != currentUserID {
		if user, userErr := s.userRepo.GetByID(ctx, currentUserID); userErr != nil || user.Role != models.RoleAdmin {
			return nil, ErrOrganizerOnly
		}
	}

	if status == models.ParticipantConfirmed {
		confirmed := models.ParticipantConfirmed
		count, err := s.participantRepo.CountByLeague(ctx, league.ID, &confirmed)
		if err != nil {
			return nil, err
		}
		if count >= league.MaxParticipants {
			return nil, ErrLeagueFull
		}
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, status); err != nil {
		return nil, fmt.Errorf("failed to update participant %d status: %w", participantID, err)
	}
	participant.Status = status
	return participant, nil
}

func (s *participantService) Withdraw(ctx context.Context, participantID, currentUserID int) error {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}

	allowed := false
	switch {
	case participant.UserID != nil && *participant.UserID == currentUserID:
		allowed = true
	case participant.TeamID != nil:
		team, teamErr := s.teamRepo.GetByID(ctx, *participant.TeamID)
		allowed = teamErr == nil && team.CaptainID == currentUserID
	}
	if !allowed {
		return ErrForbiddenOperation
	}

	league, err := s.leagueRepo.GetByID(ctx, participant.LeagueID)
	if err != nil {
		return fmt.Errorf("failed to get league %d: %w", participant.LeagueID, err)
	}
	// Once the schedule exists, the roster is fixed.
	if league.Status != models.LeagueStatusRegistration && league.Status != models.LeagueStatusSoon {
		return ErrRegistrationNotOpen
	}

	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to delete participant %d: %w", participantID, err)
	}
	return nil
}
