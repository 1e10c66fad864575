package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict")
	ErrTeamCaptainInvalid = errors.New("team captain conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, captain_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query, team.Name, team.CaptainID).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, captain_id, logo_key, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.CaptainID,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `UPDATE teams SET name = $1, captain_id = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, team.Name, team.CaptainID, team.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update logo key for team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "teams_captain_id_fkey" {
				return ErrTeamCaptainInvalid
			}
		}
	}
	return err
}
