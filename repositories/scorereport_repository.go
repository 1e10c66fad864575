package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/scoring"
	"github.com/lib/pq"
)

var (
	ErrScoreReportNotFound        = errors.New("score report not found")
	ErrScoreReportMatchInvalid    = errors.New("score report match conflict or invalid")
	ErrScoreReportReporterInvalid = errors.New("score report reporter conflict or invalid")
)

type ScoreReportRepository interface {
	// Upsert inserts the report or, when the reporter already has one for
	// this match, replaces it in place. The (match, reporter) pair is the
	// natural key; two concurrent submissions by the same reporter can
	// never produce a second row.
	Upsert(ctx context.Context, exec SQLExecutor, report *models.ScoreReport) error
	GetByID(ctx context.Context, id int) (*models.ScoreReport, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.ScoreReport, error)
}

type postgresScoreReportRepository struct {
	db *sql.DB
}

func NewPostgresScoreReportRepository(db *sql.DB) ScoreReportRepository {
	return &postgresScoreReportRepository{db: db}
}

func (r *postgresScoreReportRepository) Upsert(ctx context.Context, exec SQLExecutor, report *models.ScoreReport) error {
	setsJSON, err := scoring.EncodeSets(report.Sets)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO score_reports
			(match_id, reporter_participant_id, sets, sets_won, sets_lost, games_won, games_lost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, reporter_participant_id) DO UPDATE
		SET sets = EXCLUDED.sets,
		    sets_won = EXCLUDED.sets_won,
		    sets_lost = EXCLUDED.sets_lost,
		    games_won = EXCLUDED.games_won,
		    games_lost = EXCLUDED.games_lost,
		    created_at = NOW()
		RETURNING id, created_at`

	err = exec.QueryRowContext(ctx, query,
		report.MatchID,
		report.ReporterParticipantID,
		setsJSON,
		report.SetsWon,
		report.SetsLost,
		report.GamesWon,
		report.GamesLost,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "score_reports_match_id_fkey":
				return ErrScoreReportMatchInvalid
			case "score_reports_reporter_participant_id_fkey":
				return ErrScoreReportReporterInvalid
			}
		}
		return fmt.Errorf("failed to upsert score report: %w", err)
	}
	return nil
}

func (r *postgresScoreReportRepository) GetByID(ctx context.Context, id int) (*models.ScoreReport, error) {
	query := `
		SELECT id, match_id, reporter_participant_id, sets, sets_won, sets_lost, games_won, games_lost, created_at
		FROM score_reports
		WHERE id = $1`

	report, err := r.scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreReportNotFound
		}
		return nil, fmt.Errorf("failed to scan score report by id %d: %w", id, err)
	}
	return report, nil
}

func (r *postgresScoreReportRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.ScoreReport, error) {
	query := `
		SELECT id, match_id, reporter_participant_id, sets, sets_won, sets_lost, games_won, games_lost, created_at
		FROM score_reports
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score reports of match %d: %w", matchID, err)
	}
	defer rows.Close()

	reports := make([]*models.ScoreReport, 0)
	for rows.Next() {
		report, scanErr := r.scanReport(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan score report row: %w", scanErr)
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score report rows iteration: %w", err)
	}
	return reports, nil
}

func (r *postgresScoreReportRepository) scanReport(scanner interface{ Scan(...interface{}) error }) (*models.ScoreReport, error) {
	report := &models.ScoreReport{}
	var setsJSON []byte
	err := scanner.Scan(
		&report.ID,
		&report.MatchID,
		&report.ReporterParticipantID,
		&setsJSON,
		&report.SetsWon,
		&report.SetsLost,
		&report.GamesWon,
		&report.GamesLost,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sets, err := scoring.DecodeSets(setsJSON)
	if err != nil {
		return nil, fmt.Errorf("score report %d holds malformed sets: %w", report.ID, err)
	}
	report.Sets = sets
	return report, nil
}
