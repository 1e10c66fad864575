package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CreateLeagueInput struct {
	Name            string                       `json:"name"`
	Description     *string                      `json:"description"`
	ParticipantType models.LeagueParticipantType `json:"participant_type"`
	RegDate         time.Time                    `json:"reg_date"`
	StartDate       time.Time                    `json:"start_date"`
	EndDate         time.Time                    `json:"end_date"`
	Location        *string                      `json:"location"`
	MaxParticipants int                          `json:"max_participants"`
}

type UpdateLeagueInput struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	RegDate         *time.Time `json:"reg_date"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Location        *string    `json:"location"`
	MaxParticipants *int       `json:"max_participants"`
}

type LeagueService interface {
	Create(ctx context.Context, organizerID int, input CreateLeagueInput) (*models.League, error)
	GetDetails(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context, statusFilter *models.LeagueStatus, limit, offset int) ([]*models.League, error)
	Update(ctx context.Context, id, currentUserID int, input UpdateLeagueInput) (*models.League, error)
	UpdateStatus(ctx context.Context, id, currentUserID int, status models.LeagueStatus) (*models.League, error)
	UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.League, error)
	SyncStatusesByDates(ctx context.Context) error
}

type leagueService struct {
	leagueRepo      repositories.LeagueRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	userRepo        repositories.UserRepository
	uploader        storage.FileUploader
	db              *sql.DB
	logger          *slog.Logger
}

func NewLeagueService(
	db *sql.DB,
	leagueRepo repositories.LeagueRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		userRepo:        userRepo,
		uploader:        uploader,
		db:              db,
		logger:          logger,
	}
}

func (s *leagueService) Create(ctx context.Context, organizerID int, input CreateLeagueInput) (*models.League, error) {
	if input.Name == "" {
		return nil, ErrLeagueNameRequired
	}
	if input.ParticipantType != models.LeagueParticipantSolo && input.ParticipantType != models.LeagueParticipantTeam {
		return nil, fmt.Errorf("%w: participant type must be solo or team", ErrValidationFailed)
	}
	if input.MaxParticipants <= 1 {
		return nil, ErrLeagueInvalidCapacity
	}
	if err := validateLeagueDates(input.RegDate, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	league := &models.League{
		Name:            input.Name,
		Description:     input.Description,
		OrganizerID:     organizerID,
		ParticipantType: input.ParticipantType,
		RegDate:         input.RegDate,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Location:        input.Location,
		Status:          models.LeagueStatusSoon,
		MaxParticipants: input.MaxParticipants,
	}

	if err := s.leagueRepo.Create(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueNameConflict) {
			return nil, ErrLeagueNameConflict
		}
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return league, nil
}

// GetDetails loads the league together with its participants, matches and
// organizer, fetching the related collections concurrently.
func (s *leagueService) GetDetails(ctx context.Context, id int) (*models.League, error) {
	league, err := s.getLeague(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		participants []*models.Participant
		matches      []*models.Match
		organizer    *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gErr error
		participants, gErr = s.participantRepo.ListByLeague(gctx, id, nil, true)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		matches, gErr = s.matchRepo.ListByLeague(gctx, id, nil, nil)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		organizer, gErr = s.userRepo.GetByID(gctx, league.OrganizerID)
		if errors.Is(gErr, repositories.ErrUserNotFound) {
			organizer, gErr = nil, nil
		}
		return gErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load league %d details: %w", id, err)
	}

	populateParticipantListDetails(participants, s.uploader)
	populateUserDetails(organizer, s.uploader)
	populateLeagueLogoURL(league, s.uploader)

	league.Organizer = organizer
	league.Participants = make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		league.Participants = append(league.Participants, *p)
	}
	league.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		league.Matches = append(league.Matches, *m)
	}
	return league, nil
}

func (s *leagueService) List(ctx context.Context, statusFilter *models.LeagueStatus, limit, offset int) ([]*models.League, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	leagues, err := s.leagueRepo.List(ctx, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	for _, league := range leagues {
		populateLeagueLogoURL(league, s.uploader)
	}
	return leagues, nil
}

func (s *leagueService) Update(ctx context.Context, id, currentUserID int, input UpdateLeagueInput) (*models.League, error) {
	league, err := s.requireOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrLeagueNameRequired
		}
		league.Name = *input.Name
	}
	if input.Description != nil {
		league.Description = input.Description
	}
	if input.RegDate != nil {
		league.RegDate = *input.RegDate
	}
	if input.StartDate != nil {
		league.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		league.EndDate = *input.EndDate
	}
	if input.Location != nil {
		league.Location = input.Location
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants <= 1 {
			return nil, ErrLeagueInvalidCapacity
		}
		league.MaxParticipants = *input.MaxParticipants
	}
	if err := validateLeagueDates(league.RegDate, league.StartDate, league.EndDate); err != nil {
		return nil, err
	}

	if err := s.leagueRepo.Update(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueNameConflict) {
			return nil, ErrLeagueNameConflict
		}
		return nil, fmt.Errorf("failed to update league %d: %w", id, err)
	}
	populateLeagueLogoURL(league, s.uploader)
	return league, nil
}

func (s *leagueService) UpdateStatus(ctx context.Context, id, currentUserID int, status models.LeagueStatus) (*models.League, error) {
	league, err := s.requireOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if !isValidLeagueStatusTransition(league.Status, status) {
		return nil, fmt.Errorf("%w: cannot move league from %s to %s", ErrValidationFailed, league.Status, status)
	}

	if err := s.leagueRepo.UpdateStatus(ctx, s.db, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status of league %d: %w", id, err)
	}
	league.Status = status
	return league, nil
}

func (s *leagueService) UploadLogo(ctx context.Context, id, currentUserID int, contentType string, file io.Reader) (*models.League, error) {
	league, err := s.requireOrganizer(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("leagues/%d/%s%s", id, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload league logo: %w", err)
	}

	oldKey := league.LogoKey
	if err := s.leagueRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, fmt.Errorf("failed to store league logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	league.LogoKey = &key
	populateLeagueLogoURL(league, s.uploader)
	return league, nil
}

// SyncStatusesByDates advances leagues along their date-driven lifecycle:
// soon opens registration once the present reaches a week before closing,
// and registration flips to active once the start date passes. Intended to
// run on an interval from main.
func (s *leagueService) SyncStatusesByDates(ctx context.Context) error {
	now := time.Now()

	for _, status := range []models.LeagueStatus{models.LeagueStatusSoon, models.LeagueStatusRegistration} {
		statusFilter := status
		leagues, err := s.leagueRepo.List(ctx, &statusFilter, 100, 0)
		if err != nil {
			return fmt.Errorf("failed to list %s leagues: %w", status, err)
		}
		for _, league := range leagues {
			var next models.LeagueStatus
			switch {
			case league.Status == models.LeagueStatusSoon && !now.Before(league.RegDate.Add(-7*24*time.Hour)):
				next = models.LeagueStatusRegistration
			case league.Status == models.LeagueStatusRegistration && !now.Before(league.StartDate):
				next = models.LeagueStatusActive
			default:
				continue
			}
			if err := s.leagueRepo.UpdateStatus(ctx, s.db, league.ID, next); err != nil {
				s.logger.Error("failed to advance league status",
					"league_id", league.ID, "from", league.Status, "to", next, "error", err)
				continue
			}
			s.logger.Info("league status advanced by schedule",
				"league_id", league.ID, "from", league.Status, "to", next)
		}
	}
	return nil
}

func (s *leagueService) getLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}
	return league, nil
}

func (s *leagueService) requireOrganizer(ctx context.Context, leagueID, userID int) (*models.League, error) {
	league, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.OrganizerID == userID {
		return league, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return league, nil
	}
	return nil, ErrOrganizerOnly
}
