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
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrParticipantConflict      = errors.New("participant conflict: user or team already registered for this league")
	ErrParticipantUserInvalid   = errors.New("participant user conflict or invalid")
	ErrParticipantTeamInvalid   = errors.New("participant team conflict or invalid")
	ErrParticipantLeagueInvalid = errors.New("participant league conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	FindByUserAndLeague(ctx context.Context, userID, leagueID int) (*models.Participant, error)
	FindByTeamAndLeague(ctx context.Context, teamID, leagueID int) (*models.Participant, error)
	ListByLeague(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus, includeDetails bool) ([]*models.Participant, error)
	CountByLeague(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus) (int, error)
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (league_id, user_id, team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.LeagueID,
		p.UserID,
		p.TeamID,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "participants_league_id_user_id_key" ||
					pqErr.Constraint == "participants_league_id_team_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_team_id_fkey":
					return ErrParticipantTeamInvalid
				case "participants_league_id_fkey":
					return ErrParticipantLeagueInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, league_id, user_id, team_id, status, created_at
		FROM participants
		WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresParticipantRepository) FindByUserAndLeague(ctx context.Context, userID, leagueID int) (*models.Participant, error) {
	query := `
		SELECT id, league_id, user_id, team_id, status, created_at
		FROM participants
		WHERE user_id = $1 AND league_id = $2`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, leagueID))
}

func (r *postgresParticipantRepository) FindByTeamAndLeague(ctx context.Context, teamID, leagueID int) (*models.Participant, error) {
	query := `
		SELECT id, league_id, user_id, team_id, status, created_at
		FROM participants
		WHERE team_id = $1 AND league_id = $2`

	return r.scanOne(r.db.QueryRowContext(ctx, query, teamID, leagueID))
}

func (r *postgresParticipantRepository) scanOne(row *sql.Row) (*models.Participant, error) {
	p := &models.Participant{}
	err := row.Scan(&p.ID, &p.LeagueID, &p.UserID, &p.TeamID, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByLeague(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus, includeDetails bool) ([]*models.Participant, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT p.id, p.league_id, p.user_id, p.team_id, p.status, p.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.avatar_key,
		       t.id, t.name, t.captain_id, t.logo_key
		FROM participants p
		LEFT JOIN users u ON p.user_id = u.id
		LEFT JOIN teams t ON p.team_id = t.id
		WHERE p.league_id = $1`)

	args := []interface{}{leagueID}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND p.status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY p.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		var (
			userID    sql.NullInt64
			firstName sql.NullString
			lastName  sql.NullString
			email     sql.NullString
			avatarKey sql.NullString
			teamID    sql.NullInt64
			teamName  sql.NullString
			captainID sql.NullInt64
			logoKey   sql.NullString
		)
		if scanErr := rows.Scan(
			&p.ID, &p.LeagueID, &p.UserID, &p.TeamID, &p.Status, &p.CreatedAt,
			&userID, &firstName, &lastName, &email, &avatarKey,
			&teamID, &teamName, &captainID, &logoKey,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}

		if includeDetails {
			if userID.Valid {
				p.User = &models.User{
					ID:        int(userID.Int64),
					FirstName: firstName.String,
					LastName:  lastName.String,
					Email:     email.String,
				}
				if avatarKey.Valid {
					key := avatarKey.String
					p.User.AvatarKey = &key
				}
			}
			if teamID.Valid {
				p.Team = &models.Team{
					ID:        int(teamID.Int64),
					Name:      teamName.String,
					CaptainID: int(captainID.Int64),
				}
				if logoKey.Valid {
					key := logoKey.String
					p.Team.LogoKey = &key
				}
			}
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByLeague(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE league_id = $1`
	args := []interface{}{leagueID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants of league %d: %w", leagueID, err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
