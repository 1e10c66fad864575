package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtline/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound         = errors.New("league not found")
	ErrLeagueNameConflict     = errors.New("league name conflict")
	ErrLeagueOrganizerInvalid = errors.New("league organizer conflict or invalid")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context, statusFilter *models.LeagueStatus, limit, offset int) ([]*models.League, error)
	Update(ctx context.Context, league *models.League) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.LeagueStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

const leagueColumns = `id, name, description, organizer_id, participant_type, reg_date,
	start_date, end_date, location, status, max_participants, logo_key, created_at`

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues
			(name, description, organizer_id, participant_type, reg_date, start_date,
			 end_date, location, status, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.Name,
		league.Description,
		league.OrganizerID,
		league.ParticipantType,
		league.RegDate,
		league.StartDate,
		league.EndDate,
		league.Location,
		league.Status,
		league.MaxParticipants,
	).Scan(&league.ID, &league.CreatedAt)

	if err != nil {
		return r.handleLeagueError(err)
	}
	return nil
}

func (r *postgresLeagueRepository) scanLeague(scanner interface{ Scan(...interface{}) error }) (*models.League, error) {
	league := &models.League{}
	err := scanner.Scan(
		&league.ID,
		&league.Name,
		&league.Description,
		&league.OrganizerID,
		&league.ParticipantType,
		&league.RegDate,
		&league.StartDate,
		&league.EndDate,
		&league.Location,
		&league.Status,
		&league.MaxParticipants,
		&league.LogoKey,
		&league.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return league, nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`

	league, err := r.scanLeague(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league by id %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context, statusFilter *models.LeagueStatus, limit, offset int) ([]*models.League, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + leagueColumns + ` FROM leagues`)

	args := []interface{}{}
	if statusFilter != nil {
		queryBuilder.WriteString(" WHERE status = $1")
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY start_date DESC, id DESC")
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)+1))
	args = append(args, limit)
	queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(len(args)+1))
	args = append(args, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		league, scanErr := r.scanLeague(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", scanErr)
		}
		leagues = append(leagues, league)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during league rows iteration: %w", err)
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	query := `
		UPDATE leagues
		SET name = $1, description = $2, reg_date = $3, start_date = $4, end_date = $5,
		    location = $6, max_participants = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		league.Name,
		league.Description,
		league.RegDate,
		league.StartDate,
		league.EndDate,
		league.Location,
		league.MaxParticipants,
		league.ID,
	)
	if err != nil {
		return r.handleLeagueError(err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.LeagueStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE leagues SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE leagues SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update logo key for league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) handleLeagueError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "leagues_name_key" {
				return ErrLeagueNameConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "leagues_organizer_id_fkey" {
				return ErrLeagueOrganizerInvalid
			}
		}
	}
	return err
}
