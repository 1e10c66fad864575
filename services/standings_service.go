package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/storage"
)

const pointsPerWin = 2

type StandingsService interface {
	// BuildStandings computes the league table from finalized match results
	// only. Pending and disputed matches contribute nothing.
	BuildStandings(ctx context.Context, leagueID int) ([]models.StandingEntry, error)
}

type standingsService struct {
	leagueRepo      repositories.LeagueRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
}

func NewStandingsService(
	leagueRepo repositories.LeagueRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
) StandingsService {
	return &standingsService{
		leagueRepo:      leagueRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
	}
}

func (s *standingsService) BuildStandings(ctx context.Context, leagueID int) ([]models.StandingEntry, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", leagueID, err)
	}

	confirmed := models.ParticipantConfirmed
	participants, err := s.participantRepo.ListByLeague(ctx, leagueID, &confirmed, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of league %d: %w", leagueID, err)
	}
	populateParticipantListDetails(participants, s.uploader)

	entries := make(map[int]*models.StandingEntry, len(participants))
	order := make([]int, 0, len(participants))
	for _, p := range participants {
		entries[p.ID] = &models.StandingEntry{Participant: *p}
		order = append(order, p.ID)
	}

	matches, err := s.matchRepo.ListByLeague(ctx, leagueID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of league %d: %w", leagueID, err)
	}

	for _, match := range matches {
		if !match.ScoringStatus.Terminal() {
			continue
		}
		if match.SetsWonHome == nil || match.SetsWonAway == nil ||
			match.GamesWonHome == nil || match.GamesWonAway == nil {
			continue
		}

		home, homeOK := entries[match.HomeParticipantID]
		away, awayOK := entries[match.AwayParticipantID]
		if !homeOK || !awayOK {
			continue
		}

		home.Played++
		away.Played++
		home.SetsWon += *match.SetsWonHome
		home.SetsLost += *match.SetsWonAway
		away.SetsWon += *match.SetsWonAway
		away.SetsLost += *match.SetsWonHome
		home.GamesWon += *match.GamesWonHome
		home.GamesLost += *match.GamesWonAway
		away.GamesWon += *match.GamesWonAway
		away.GamesLost += *match.GamesWonHome

		// A valid tennis result always has a set winner; no draws.
		if *match.SetsWonHome > *match.SetsWonAway {
			home.Wins++
			away.Losses++
		} else {
			away.Wins++
			home.Losses++
		}
	}

	table := make([]models.StandingEntry, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		entry.Points = entry.Wins * pointsPerWin
		table = append(table, *entry)
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		setDiffA, setDiffB := a.SetsWon-a.SetsLost, b.SetsWon-b.SetsLost
		if setDiffA != setDiffB {
			return setDiffA > setDiffB
		}
		gameDiffA, gameDiffB := a.GamesWon-a.GamesLost, b.GamesWon-b.GamesLost
		if gameDiffA != gameDiffB {
			return gameDiffA > gameDiffB
		}
		return a.Participant.ID < b.Participant.ID
	})
	return table, nil
}
