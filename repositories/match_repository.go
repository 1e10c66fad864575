package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/scoring"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchLeagueInvalid      = errors.New("match league conflict or invalid")

	// ErrMatchScoringConflict means a conditional scoring-status write found
	// the match in a different status than expected, i.e. someone else got
	// there first.
	ErrMatchScoringConflict = errors.New("match scoring status changed concurrently")
)

// FinalizeMatchParams carries everything a conditional finalization write
// needs. The write only succeeds while the match is still in
// ExpectedStatus; a concurrent finalization makes it fail with
// ErrMatchScoringConflict instead of silently overwriting.
type FinalizeMatchParams struct {
	MatchID            int
	ExpectedStatus     scoring.ScoringStatus
	NewStatus          scoring.ScoringStatus
	FinalScoreReportID *int
	SetsWonHome        int
	SetsWonAway        int
	GamesWonHome       int
	GamesWonAway       int
	ApprovedBy         int
	ApprovedAt         time.Time
}

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByLeague(ctx context.Context, leagueID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error)
	CountByLeague(ctx context.Context, leagueID int) (int, error)
	UpdateScoringStatus(ctx context.Context, exec SQLExecutor, matchID int, from, to scoring.ScoringStatus) error
	Finalize(ctx context.Context, exec SQLExecutor, params FinalizeMatchParams) error
	UpdateFinalTotals(ctx context.Context, matchID int, expected scoring.ScoringStatus, setsHome, setsAway, gamesHome, gamesAway int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, league_id, home_participant_id, away_participant_id, round, match_time,
	status, scoring_status, final_score_report_id, sets_won_home, sets_won_away,
	games_won_home, games_won_away, approved_by, approved_at, created_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches
			(league_id, home_participant_id, away_participant_id, round, match_time, status, scoring_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	for _, match := range matches {
		err := exec.QueryRowContext(ctx, query,
			match.LeagueID,
			match.HomeParticipantID,
			match.AwayParticipantID,
			match.Round,
			match.MatchTime,
			match.Status,
			match.ScoringStatus,
		).Scan(&match.ID, &match.CreatedAt)
		if err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	err := scanner.Scan(
		&match.ID,
		&match.LeagueID,
		&match.HomeParticipantID,
		&match.AwayParticipantID,
		&match.Round,
		&match.MatchTime,
		&match.Status,
		&match.ScoringStatus,
		&match.FinalScoreReportID,
		&match.SetsWonHome,
		&match.SetsWonAway,
		&match.GamesWonHome,
		&match.GamesWonAway,
		&match.ApprovedBy,
		&match.ApprovedAt,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByLeague(ctx context.Context, leagueID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE league_id = $1`)

	args := []interface{}{leagueID}
	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(len(args)+1))
		args = append(args, *roundFilter)
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY round ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches of league %d: %w", leagueID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByLeague(ctx context.Context, leagueID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE league_id = $1`, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches of league %d: %w", leagueID, err)
	}
	return count, nil
}

// UpdateScoringStatus moves the scoring status with a compare-and-set: the
// row is only touched while it is still in the from status.
func (r *postgresMatchRepository) UpdateScoringStatus(ctx context.Context, exec SQLExecutor, matchID int, from, to scoring.ScoringStatus) error {
	query := `UPDATE matches SET scoring_status = $1 WHERE id = $2 AND scoring_status = $3`
	result, err := exec.ExecContext(ctx, query, to, matchID, from)
	if err != nil {
		return fmt.Errorf("failed to update scoring status of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchScoringConflict)
}

func (r *postgresMatchRepository) Finalize(ctx context.Context, exec SQLExecutor, params FinalizeMatchParams) error {
	query := `
		UPDATE matches
		SET scoring_status = $1, status = $2, final_score_report_id = $3,
		    sets_won_home = $4, sets_won_away = $5, games_won_home = $6, games_won_away = $7,
		    approved_by = $8, approved_at = $9
		WHERE id = $10 AND scoring_status = $11`

	result, err := exec.ExecContext(ctx, query,
		params.NewStatus,
		models.MatchStatusCompleted,
		params.FinalScoreReportID,
		params.SetsWonHome,
		params.SetsWonAway,
		params.GamesWonHome,
		params.GamesWonAway,
		params.ApprovedBy,
		params.ApprovedAt,
		params.MatchID,
		params.ExpectedStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize match %d: %w", params.MatchID, err)
	}
	return checkAffectedRows(result, ErrMatchScoringConflict)
}

// UpdateFinalTotals rewrites the finalized numbers of a match that is
// already in the expected terminal status; the report link is cleared
// because the stored report no longer backs the edited result.
func (r *postgresMatchRepository) UpdateFinalTotals(ctx context.Context, matchID int, expected scoring.ScoringStatus, setsHome, setsAway, gamesHome, gamesAway int) error {
	query := `
		UPDATE matches
		SET sets_won_home = $1, sets_won_away = $2, games_won_home = $3, games_won_away = $4,
		    final_score_report_id = NULL
		WHERE id = $5 AND scoring_status = $6`

	result, err := r.db.ExecContext(ctx, query, setsHome, setsAway, gamesHome, gamesAway, matchID, expected)
	if err != nil {
		return fmt.Errorf("failed to update final totals of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchScoringConflict)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_league_id_fkey":
			return ErrMatchLeagueInvalid
		case "matches_home_participant_id_fkey", "matches_away_participant_id_fkey":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}
