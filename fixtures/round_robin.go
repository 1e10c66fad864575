package fixtures

// byeID marks the synthetic participant that balances an odd roster. Any
// pairing with it is dropped, so that participant sits out the round.
const byeID = -1

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a single round-robin schedule with the circle method: the
// first participant stays fixed while the rest rotate one position per
// round. Every unordered pair of participants appears in exactly one round,
// N*(N-1)/2 matches in total. The output is fully determined by the input
// order, so regeneration from the same roster is idempotent.
//
// Fewer than two participants yield an empty schedule.
func (g *RoundRobinGenerator) Generate(participantIDs []int) []Fixture {
	if len(participantIDs) < 2 {
		return []Fixture{}
	}

	working := make([]int, len(participantIDs))
	copy(working, participantIDs)
	if len(working)%2 != 0 {
		working = append(working, byeID)
	}

	size := len(working)
	rounds := size - 1
	anchor := working[0]
	rotating := working[1:]

	matches := make([]Fixture, 0, len(participantIDs)*(len(participantIDs)-1)/2)
	for round := 1; round <= rounds; round++ {
		order := make([]int, 0, size)
		order = append(order, anchor)
		order = append(order, rotating...)

		for i := 0; i < size/2; i++ {
			home, away := order[i], order[size-1-i]
			if home == byeID || away == byeID {
				continue
			}
			matches = append(matches, Fixture{HomeID: home, AwayID: away, Round: round})
		}

		// Rotate by moving the last element to the front.
		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}
	return matches
}
