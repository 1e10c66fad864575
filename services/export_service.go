package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/xuri/excelize/v2"
)

type ExportService interface {
	// ExportLeague renders the league table and schedule into a two-sheet
	// xlsx workbook.
	ExportLeague(ctx context.Context, leagueID int) ([]byte, string, error)
}

type exportService struct {
	leagueRepo      repositories.LeagueRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standings       StandingsService
}

func NewExportService(
	leagueRepo repositories.LeagueRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standings StandingsService,
) ExportService {
	return &exportService{
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standings:       standings,
	}
}

func (s *exportService) ExportLeague(ctx context.Context, leagueID int) ([]byte, string, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, "", ErrLeagueNotFound
		}
		return nil, "", fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}

	table, err := s.standings.BuildStandings(ctx, leagueID)
	if err != nil {
		return nil, "", err
	}

	matches, err := s.matchRepo.ListByLeague(ctx, leagueID, nil, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list matches of league %d: %w", leagueID, err)
	}

	confirmed := models.ParticipantConfirmed
	participants, err := s.participantRepo.ListByLeague(ctx, leagueID, &confirmed, true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list participants of league %d: %w", leagueID, err)
	}
	names := make(map[int]string, len(participants))
	for _, p := range participants {
		names[p.ID] = participantDisplayName(p)
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := writeStandingsSheet(file, table); err != nil {
		return nil, "", err
	}
	if err := writeScheduleSheet(file, matches, names); err != nil {
		return nil, "", err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}
	filename := fmt.Sprintf("league-%d-%s.xlsx", league.ID, league.StartDate.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeStandingsSheet(file *excelize.File, table []models.StandingEntry) error {
	const sheet = "Standings"
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []interface{}{"Rank", "Participant", "Played", "Wins", "Losses",
		"Sets Won", "Sets Lost", "Games Won", "Games Lost", "Points"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write standings header: %w", err)
	}

	for i, entry := range table {
		p := entry.Participant
		row := []interface{}{
			i + 1,
			participantDisplayName(&p),
			entry.Played,
			entry.Wins,
			entry.Losses,
			entry.SetsWon,
			entry.SetsLost,
			entry.GamesWon,
			entry.GamesLost,
			entry.Points,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write standings row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeScheduleSheet(file *excelize.File, matches []*models.Match, names map[int]string) error {
	const sheet = "Schedule"
	if _, err := file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create schedule sheet: %w", err)
	}

	headers := []interface{}{"Round", "Date", "Home", "Away", "Status", "Score"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write schedule header: %w", err)
	}

	for i, match := range matches {
		score := ""
		if match.SetsWonHome != nil && match.SetsWonAway != nil {
			score = fmt.Sprintf("%d:%d", *match.SetsWonHome, *match.SetsWonAway)
		}
		row := []interface{}{
			match.Round,
			match.MatchTime.Format("2006-01-02"),
			displayName(names, match.HomeParticipantID),
			displayName(names, match.AwayParticipantID),
			string(match.Status),
			score,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write schedule row %d: %w", i+1, err)
		}
	}
	return nil
}

func displayName(names map[int]string, participantID int) string {
	if name, ok := names[participantID]; ok {
		return name
	}
	return fmt.Sprintf("Participant %d", participantID)
}
