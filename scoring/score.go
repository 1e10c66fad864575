package scoring

import (
	"encoding/json"
	"fmt"
)

// TiebreakScore is the point score of a tiebreak from the reporter's side.
type TiebreakScore struct {
	ReporterPoints int `json:"reporter_points"`
	OpponentPoints int `json:"opponent_points"`
}

// SetScore is one set's result from a single reporter's point of view.
// For a super tiebreak set the games fields carry the tiebreak points
// (e.g. 10-7). Values are never mutated after construction.
type SetScore struct {
	ReporterGames   int            `json:"reporter_games"`
	OpponentGames   int            `json:"opponent_games"`
	IsTiebreak      bool           `json:"is_tiebreak,omitempty"`
	Tiebreak        *TiebreakScore `json:"tiebreak,omitempty"`
	IsSuperTiebreak bool           `json:"is_super_tiebreak,omitempty"`
}

// Swapped returns the same set seen from the opponent's side.
func (s SetScore) Swapped() SetScore {
	out := SetScore{
		ReporterGames:   s.OpponentGames,
		OpponentGames:   s.ReporterGames,
		IsTiebreak:      s.IsTiebreak,
		IsSuperTiebreak: s.IsSuperTiebreak,
	}
	if s.Tiebreak != nil {
		out.Tiebreak = &TiebreakScore{
			ReporterPoints: s.Tiebreak.OpponentPoints,
			OpponentPoints: s.Tiebreak.ReporterPoints,
		}
	}
	return out
}

func (s SetScore) reporterWon() bool {
	return s.ReporterGames > s.OpponentGames
}

// EncodeSets serializes a set list for JSONB storage.
func EncodeSets(sets []SetScore) ([]byte, error) {
	data, err := json.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode set scores: %w", err)
	}
	return data, nil
}

// DecodeSets is the inverse of EncodeSets. Decoding the output of EncodeSets
// always yields an identical set list.
func DecodeSets(data []byte) ([]SetScore, error) {
	var sets []SetScore
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to decode set scores: %w", err)
	}
	return sets, nil
}
