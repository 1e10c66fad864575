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
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteTeamInvalid = errors.New("invite team conflict or invalid")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (team_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.TeamID,
		invite.Token,
		invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" && pqErr.Constraint == "invites_team_id_fkey" {
			return ErrInviteTeamInvalid
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := `
		SELECT id, team_id, token, expires_at, created_at
		FROM invites
		WHERE token = $1`

	invite := &models.Invite{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&invite.ID,
		&invite.TeamID,
		&invite.Token,
		&invite.ExpiresAt,
		&invite.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to scan invite: %w", err)
	}
	return invite, nil
}

func (r *postgresInviteRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invites WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invites: %w", err)
	}
	return result.RowsAffected()
}
