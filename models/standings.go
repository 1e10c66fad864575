package models

// StandingEntry is one row of a league table, computed from finalized match
// results only. It is never persisted.
type StandingEntry struct {
	Participant Participant `json:"participant"`
	Played      int         `json:"played"`
	Wins        int         `json:"wins"`
	Losses      int         `json:"losses"`
	SetsWon     int         `json:"sets_won"`
	SetsLost    int         `json:"sets_lost"`
	GamesWon    int         `json:"games_won"`
	GamesLost   int         `json:"games_lost"`
	Points      int         `json:"points"`
}
