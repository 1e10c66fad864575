package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/google/uuid"
)

const inviteLifetime = 7 * 24 * time.Hour

type InviteService interface {
	// CreateInvite issues a join token for a team. When inviteeEmail is
	// non-empty, the invite link is mailed out as well; mail failures do
	// not fail the invite.
	CreateInvite(ctx context.Context, teamID, currentUserID int, inviteeEmail string) (*models.Invite, string, error)
	GetInviteByToken(ctx context.Context, token string) (*models.Invite, error)
	AcceptInvite(ctx context.Context, token string, currentUserID int) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type inviteService struct {
	db         *sql.DB
	inviteRepo repositories.InviteRepository
	teamRepo   repositories.TeamRepository
	userRepo   repositories.UserRepository
	email      *EmailService
	publicURL  string
	logger     *slog.Logger
}

func NewInviteService(
	db *sql.DB,
	inviteRepo repositories.InviteRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	email *EmailService,
	publicURL string,
	logger *slog.Logger,
) InviteService {
	return &inviteService{
		db:         db,
		inviteRepo: inviteRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		email:      email,
		publicURL:  publicURL,
		logger:     logger,
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, teamID, currentUserID int, inviteeEmail string) (*models.Invite, string, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, "", ErrTeamNotFound
		}
		return nil, "", fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if team.CaptainID != currentUserID {
		return nil, "", ErrCaptainActionForbidden
	}

	invite := &models.Invite{
		TeamID:    teamID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(inviteLifetime),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		if errors.Is(err, repositories.ErrInviteTeamInvalid) {
			return nil, "", ErrTeamNotFound
		}
		return nil, "", fmt.Errorf("failed to create invite: %w", err)
	}

	link := fmt.Sprintf("%s/invites/%s", s.publicURL, invite.Token)
	if inviteeEmail != "" && s.email != nil {
		if mailErr := s.email.SendTeamInviteEmail(inviteeEmail, team.Name, link); mailErr != nil {
			s.logger.Warn("failed to send team invite email",
				"team_id", teamID, "error", mailErr)
		}
	}
	return invite, link, nil
}

func (s *inviteService) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite by token: %w", err)
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}

	team, err := s.teamRepo.GetByID(ctx, invite.TeamID)
	if err == nil {
		invite.Team = team
	}
	return invite, nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, token string, currentUserID int) error {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", currentUserID, err)
	}
	if user.TeamID != nil {
		return ErrUserAlreadyInTeam
	}

	// Joining and consuming the invite happen atomically; a token can only
	// admit one member.
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.userRepo.UpdateTeamID(ctx, tx, currentUserID, &invite.TeamID); txErr != nil {
			return fmt.Errorf("failed to join team %d: %w", invite.TeamID, txErr)
		}
		if txErr := s.inviteRepo.Delete(ctx, tx, invite.ID); txErr != nil {
			if errors.Is(txErr, repositories.ErrInviteNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("failed to consume invite %d: %w", invite.ID, txErr)
		}
		return nil
	})
}

func (s *inviteService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.inviteRepo.DeleteExpired(ctx)
}
