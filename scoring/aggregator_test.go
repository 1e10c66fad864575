package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGameTotals(t *testing.T) {
	tests := []struct {
		name     string
		sets     []SetScore
		wantWon  int
		wantLost int
	}{
		{
			name: "plain sets add games directly",
			sets: []SetScore{
				{ReporterGames: 6, OpponentGames: 4},
				{ReporterGames: 7, OpponentGames: 5},
			},
			wantWon:  13,
			wantLost: 9,
		},
		{
			name: "tiebreak set counts as a single extra game",
			sets: []SetScore{
				{ReporterGames: 7, OpponentGames: 6, IsTiebreak: true,
					Tiebreak: &TiebreakScore{ReporterPoints: 7, OpponentPoints: 3}},
			},
			wantWon:  7,
			wantLost: 6,
		},
		{
			name: "lost tiebreak credits the winner",
			sets: []SetScore{
				{ReporterGames: 6, OpponentGames: 7, IsTiebreak: true,
					Tiebreak: &TiebreakScore{ReporterPoints: 5, OpponentPoints: 7}},
			},
			wantWon:  6,
			wantLost: 7,
		},
		{
			name: "super tiebreak counts one game each way",
			sets: []SetScore{
				{ReporterGames: 10, OpponentGames: 8, IsSuperTiebreak: true},
			},
			wantWon:  1,
			wantLost: 1,
		},
		{
			name: "mixed match",
			sets: []SetScore{
				{ReporterGames: 6, OpponentGames: 4},
				{ReporterGames: 3, OpponentGames: 6},
				{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
			},
			wantWon:  10,
			wantLost: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			won, lost := GameTotals(tt.sets)
			require.Equal(t, tt.wantWon, won)
			require.Equal(t, tt.wantLost, lost)
		})
	}
}

func TestToHomeAway(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 6, OpponentGames: 4},
		{ReporterGames: 3, OpponentGames: 6},
		{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
	}

	asHome := ToHomeAway(sets, true)
	require.Equal(t, 2, asHome.SetsWonHome)
	require.Equal(t, 1, asHome.SetsWonAway)
	require.Equal(t, 10, asHome.GamesWonHome)
	require.Equal(t, 11, asHome.GamesWonAway)
	require.Equal(t, sets, asHome.Sets)

	asAway := ToHomeAway(sets, false)
	require.Equal(t, 1, asAway.SetsWonHome)
	require.Equal(t, 2, asAway.SetsWonAway)
	require.Equal(t, 11, asAway.GamesWonHome)
	require.Equal(t, 10, asAway.GamesWonAway)
}

// Reprojecting as home then swapping every home/away field must match
// reprojecting the same sets as away.
func TestToHomeAwayMirrorConsistency(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 7, OpponentGames: 6, IsTiebreak: true,
			Tiebreak: &TiebreakScore{ReporterPoints: 9, OpponentPoints: 7}},
		{ReporterGames: 2, OpponentGames: 6},
		{ReporterGames: 11, OpponentGames: 9, IsSuperTiebreak: true},
	}

	asHome := ToHomeAway(sets, true)
	asAway := ToHomeAway(sets, false)

	require.Equal(t, asHome.SetsWonHome, asAway.SetsWonAway)
	require.Equal(t, asHome.SetsWonAway, asAway.SetsWonHome)
	require.Equal(t, asHome.GamesWonHome, asAway.GamesWonAway)
	require.Equal(t, asHome.GamesWonAway, asAway.GamesWonHome)

	for i := range asHome.Sets {
		require.Equal(t, asHome.Sets[i], asAway.Sets[i].Swapped())
	}
}
