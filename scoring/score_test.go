package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetScoreRoundTrip(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 6, OpponentGames: 4},
		{ReporterGames: 7, OpponentGames: 6, IsTiebreak: true,
			Tiebreak: &TiebreakScore{ReporterPoints: 9, OpponentPoints: 7}},
		{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
	}

	data, err := EncodeSets(sets)
	require.NoError(t, err)

	decoded, err := DecodeSets(data)
	require.NoError(t, err)
	require.Equal(t, sets, decoded)
}

func TestSwappedIsInvolutive(t *testing.T) {
	set := SetScore{
		ReporterGames: 6, OpponentGames: 7,
		IsTiebreak: true,
		Tiebreak:   &TiebreakScore{ReporterPoints: 5, OpponentPoints: 7},
	}

	swapped := set.Swapped()
	require.Equal(t, 7, swapped.ReporterGames)
	require.Equal(t, 6, swapped.OpponentGames)
	require.Equal(t, 7, swapped.Tiebreak.ReporterPoints)
	require.Equal(t, 5, swapped.Tiebreak.OpponentPoints)
	require.Equal(t, set, swapped.Swapped())
}
