package models

import (
	"time"

	"github.com/courtline/league-system/scoring"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Match is one league fixture between a fixed home and away participant.
// The finalized fields are written only by the score lifecycle and are the
// only ones standings and history may read.
type Match struct {
	ID                int                   `json:"id" db:"id"`
	LeagueID          int                   `json:"league_id" db:"league_id"`
	HomeParticipantID int                   `json:"home_participant_id" db:"home_participant_id"`
	AwayParticipantID int                   `json:"away_participant_id" db:"away_participant_id"`
	Round             int                   `json:"round" db:"round"`
	MatchTime         time.Time             `json:"match_time" db:"match_time"`
	Status            MatchStatus           `json:"status" db:"status"`
	ScoringStatus     scoring.ScoringStatus `json:"scoring_status" db:"scoring_status"`
	CreatedAt         time.Time             `json:"created_at" db:"created_at"`

	FinalScoreReportID *int       `json:"final_score_report_id,omitempty" db:"final_score_report_id"`
	SetsWonHome        *int       `json:"sets_won_home,omitempty" db:"sets_won_home"`
	SetsWonAway        *int       `json:"sets_won_away,omitempty" db:"sets_won_away"`
	GamesWonHome       *int       `json:"games_won_home,omitempty" db:"games_won_home"`
	GamesWonAway       *int       `json:"games_won_away,omitempty" db:"games_won_away"`
	ApprovedBy         *int       `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty" db:"approved_at"`

	Home *Participant `json:"home,omitempty" db:"-"`
	Away *Participant `json:"away,omitempty" db:"-"`
}

// Playable reports the caller-side precondition for score reporting: the
// match must be scheduled and its start time must have passed.
func (m *Match) Playable(now time.Time) bool {
	return m.Status == MatchStatusScheduled && !m.MatchTime.After(now)
}

// Side returns which side of the match the given participant plays, or
// false when the participant is not part of the match at all.
func (m *Match) Side(participantID int) (scoring.Side, bool) {
	switch participantID {
	case m.HomeParticipantID:
		return scoring.SideHome, true
	case m.AwayParticipantID:
		return scoring.SideAway, true
	}
	return "", false
}
