package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/storage"
	"github.com/google/uuid"
)

type TeamService interface {
	Create(ctx context.Context, name string, captainID int) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Rename(ctx context.Context, teamID int, currentUserID int, name string) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID int, currentUserID int, contentType string, file io.Reader) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, memberID, currentUserID int) error
	Leave(ctx context.Context, teamID, currentUserID int) error
}

type teamService struct {
	db       *sql.DB
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		db:       db,
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

// Create makes a team and moves its captain into it in one transaction, so a
// team can never exist without a captain member.
func (s *teamService) Create(ctx context.Context, name string, captainID int) (*models.Team, error) {
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	captain, err := s.userRepo.GetByID(ctx, captainID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", captainID, err)
	}
	if captain.TeamID != nil {
		return nil, ErrUserAlreadyInTeam
	}

	team := &models.Team{Name: name, CaptainID: captainID}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.teamRepo.Create(ctx, tx, team); txErr != nil {
			if errors.Is(txErr, repositories.ErrTeamNameConflict) {
				return ErrTeamNameConflict
			}
			return fmt.Errorf("failed to create team: %w", txErr)
		}
		if txErr := s.userRepo.UpdateTeamID(ctx, tx, captainID, &team.ID); txErr != nil {
			return fmt.Errorf("failed to assign captain to team: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := s.userRepo.ListByTeamID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	for i := range members {
		populateUserDetails(&members[i], s.uploader)
	}
	team.Members = members
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) Rename(ctx context.Context, teamID int, currentUserID int, name string) (*models.Team, error) {
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team, err := s.requireCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	team.Name = name
	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, currentUserID int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.requireCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/%s%s", teamID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID, currentUserID int) error {
	team, err := s.requireCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return err
	}
	if memberID == team.CaptainID {
		return ErrCannotRemoveCaptain
	}
	return s.detachMember(ctx, teamID, memberID)
}

func (s *teamService) Leave(ctx context.Context, teamID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	// The captain cannot walk away from their own team; ownership transfer
	// is not supported.
	if currentUserID == team.CaptainID {
		return ErrCannotRemoveCaptain
	}
	return s.detachMember(ctx, teamID, currentUserID)
}

func (s *teamService) detachMember(ctx context.Context, teamID, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return ErrUserNotInTeam
	}
	if err := s.userRepo.UpdateTeamID(ctx, s.db, userID, nil); err != nil {
		return fmt.Errorf("failed to remove user %d from team %d: %w", userID, teamID, err)
	}
	return nil
}

func (s *teamService) requireCaptain(ctx context.Context, teamID, userID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainID != userID {
		return nil, ErrCaptainActionForbidden
	}
	return team, nil
}
