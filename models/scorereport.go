package models

import (
	"time"

	"github.com/courtline/league-system/scoring"
)

// ScoreReport is one participant's claim about a match result, expressed
// from the reporter's own point of view. At most one live report exists per
// (match, reporter) pair; resubmission replaces the previous claim.
type ScoreReport struct {
	ID                    int                `json:"id" db:"id"`
	MatchID               int                `json:"match_id" db:"match_id"`
	ReporterParticipantID int                `json:"reporter_participant_id" db:"reporter_participant_id"`
	Sets                  []scoring.SetScore `json:"sets" db:"sets"`
	SetsWon               int                `json:"sets_won" db:"sets_won"`
	SetsLost              int                `json:"sets_lost" db:"sets_lost"`
	GamesWon              int                `json:"games_won" db:"games_won"`
	GamesLost             int                `json:"games_lost" db:"games_lost"`
	CreatedAt             time.Time          `json:"created_at" db:"created_at"`

	Reporter *Participant `json:"reporter,omitempty" db:"-"`
}
