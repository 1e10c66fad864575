package fixtures

// Fixture is one generated pairing. HomeID and AwayID are participant IDs;
// Round numbers are 1-based and contiguous.
type Fixture struct {
	HomeID int
	AwayID int
	Round  int
}

// Generator produces a full pairing schedule for a roster of participant
// IDs. The caller decides whether the IDs identify players or teams and
// persists the resulting matches itself.
type Generator interface {
	Generate(participantIDs []int) []Fixture

	Name() string
}
