package fixtures

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func idRange(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 100 + i
	}
	return ids
}

func TestGenerateTooFewParticipants(t *testing.T) {
	g := NewRoundRobinGenerator()
	require.Empty(t, g.Generate(nil))
	require.Empty(t, g.Generate([]int{7}))
}

func TestGenerateOddRoster(t *testing.T) {
	g := NewRoundRobinGenerator()
	matches := g.Generate([]int{1, 2, 3})

	require.Len(t, matches, 3)

	perRound := map[int]int{}
	pairs := map[string]bool{}
	for _, m := range matches {
		perRound[m.Round]++
		lo, hi := m.HomeID, m.AwayID
		if lo > hi {
			lo, hi = hi, lo
		}
		pairs[fmt.Sprintf("%d-%d", lo, hi)] = true
	}

	// Odd roster: one participant sits out each round, one match per round.
	require.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, perRound)
	require.Equal(t, map[string]bool{"1-2": true, "1-3": true, "2-3": true}, pairs)
}

func TestGenerateEveryPairExactlyOnce(t *testing.T) {
	g := NewRoundRobinGenerator()

	for _, n := range []int{2, 4, 5, 6, 7, 10} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ids := idRange(n)
			matches := g.Generate(ids)
			require.Len(t, matches, n*(n-1)/2)

			seen := map[[2]int]int{}
			rounds := map[int]map[int]bool{}
			maxRound := 0
			for _, m := range matches {
				require.NotEqual(t, m.HomeID, m.AwayID)
				lo, hi := m.HomeID, m.AwayID
				if lo > hi {
					lo, hi = hi, lo
				}
				seen[[2]int{lo, hi}]++

				if rounds[m.Round] == nil {
					rounds[m.Round] = map[int]bool{}
				}
				// No participant may play twice in the same round.
				require.False(t, rounds[m.Round][m.HomeID])
				require.False(t, rounds[m.Round][m.AwayID])
				rounds[m.Round][m.HomeID] = true
				rounds[m.Round][m.AwayID] = true

				if m.Round > maxRound {
					maxRound = m.Round
				}
			}

			for pair, count := range seen {
				require.Equalf(t, 1, count, "pair %v appeared %d times", pair, count)
			}

			wantRounds := n - 1
			if n%2 != 0 {
				wantRounds = n
			}
			require.Equal(t, wantRounds, maxRound)
			for r := 1; r <= maxRound; r++ {
				require.NotEmptyf(t, rounds[r], "round %d has no matches", r)
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewRoundRobinGenerator()
	ids := idRange(9)
	require.Equal(t, g.Generate(ids), g.Generate(ids))
}
