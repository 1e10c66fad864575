package services

import (
	"context"
	"testing"

	"github.com/courtline/league-system/models"
	"github.com/courtline/league-system/repositories"
	"github.com/courtline/league-system/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLeagueRepo struct {
	repositories.LeagueRepository
	league *models.League
}

func (s *stubLeagueRepo) GetByID(ctx context.Context, id int) (*models.League, error) {
	return s.league, nil
}

type stubParticipantRepo struct {
	repositories.ParticipantRepository
	participants []*models.Participant
}

func (s *stubParticipantRepo) ListByLeague(ctx context.Context, leagueID int, statusFilter *models.ParticipantStatus, includeDetails bool) ([]*models.Participant, error) {
	return s.participants, nil
}

type stubMatchRepo struct {
	repositories.MatchRepository
	matches []*models.Match
}

func (s *stubMatchRepo) ListByLeague(ctx context.Context, leagueID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	return s.matches, nil
}

func intPtr(v int) *int { return &v }

func finalizedMatch(homeID, awayID, setsHome, setsAway, gamesHome, gamesAway int) *models.Match {
	return &models.Match{
		HomeParticipantID: homeID,
		AwayParticipantID: awayID,
		Status:            models.MatchStatusCompleted,
		ScoringStatus:     scoring.ScoringApproved,
		SetsWonHome:       intPtr(setsHome),
		SetsWonAway:       intPtr(setsAway),
		GamesWonHome:      intPtr(gamesHome),
		GamesWonAway:      intPtr(gamesAway),
	}
}

func TestBuildStandings(t *testing.T) {
	participants := []*models.Participant{
		{ID: 1, Status: models.ParticipantConfirmed},
		{ID: 2, Status: models.ParticipantConfirmed},
		{ID: 3, Status: models.ParticipantConfirmed},
	}

	matches := []*models.Match{
		// 1 beats 2, 1 beats 3, 2 beats 3. Clean ranking 1 > 2 > 3.
		finalizedMatch(1, 2, 2, 0, 12, 6),
		finalizedMatch(1, 3, 2, 1, 14, 12),
		finalizedMatch(2, 3, 2, 0, 12, 8),
		// A pending match must not count.
		{HomeParticipantID: 1, AwayParticipantID: 2, ScoringStatus: scoring.ScoringReportedBoth},
	}

	svc := NewStandingsService(
		&stubLeagueRepo{league: &models.League{ID: 10}},
		&stubParticipantRepo{participants: participants},
		&stubMatchRepo{matches: matches},
		nil,
	)

	table, err := svc.BuildStandings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, 1, table[0].Participant.ID)
	assert.Equal(t, 2, table[1].Participant.ID)
	assert.Equal(t, 3, table[2].Participant.ID)

	assert.Equal(t, 4, table[0].Points)
	assert.Equal(t, 2, table[1].Points)
	assert.Equal(t, 0, table[2].Points)

	assert.Equal(t, 2, table[0].Played)
	assert.Equal(t, 4, table[0].SetsWon)
	assert.Equal(t, 1, table[0].SetsLost)
	assert.Equal(t, 26, table[0].GamesWon)
	assert.Equal(t, 18, table[0].GamesLost)
}

func TestBuildStandingsTieBrokenBySetThenGameDiff(t *testing.T) {
	participants := []*models.Participant{
		{ID: 1, Status: models.ParticipantConfirmed},
		{ID: 2, Status: models.ParticipantConfirmed},
		{ID: 3, Status: models.ParticipantConfirmed},
		{ID: 4, Status: models.ParticipantConfirmed},
	}

	matches := []*models.Match{
		// 1 and 2 both end on one win. 1 sweeps, 2 needs three sets, so 1
		// holds the better set difference.
		finalizedMatch(1, 3, 2, 0, 12, 4),
		finalizedMatch(2, 4, 2, 1, 13, 11),
	}

	svc := NewStandingsService(
		&stubLeagueRepo{league: &models.League{ID: 10}},
		&stubParticipantRepo{participants: participants},
		&stubMatchRepo{matches: matches},
		nil,
	)

	table, err := svc.BuildStandings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, table, 4)

	assert.Equal(t, 1, table[0].Participant.ID)
	assert.Equal(t, 2, table[1].Participant.ID)
	assert.Equal(t, table[0].Points, table[1].Points)
}

func TestLeagueStatusTransitions(t *testing.T) {
	assert.True(t, isValidLeagueStatusTransition(models.LeagueStatusSoon, models.LeagueStatusRegistration))
	assert.True(t, isValidLeagueStatusTransition(models.LeagueStatusRegistration, models.LeagueStatusActive))
	assert.True(t, isValidLeagueStatusTransition(models.LeagueStatusActive, models.LeagueStatusCompleted))
	assert.True(t, isValidLeagueStatusTransition(models.LeagueStatusActive, models.LeagueStatusCanceled))

	assert.False(t, isValidLeagueStatusTransition(models.LeagueStatusCompleted, models.LeagueStatusActive))
	assert.False(t, isValidLeagueStatusTransition(models.LeagueStatusSoon, models.LeagueStatusActive))
	assert.False(t, isValidLeagueStatusTransition(models.LeagueStatusCanceled, models.LeagueStatusRegistration))
}
