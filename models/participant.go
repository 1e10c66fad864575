package models

import "time"

type ParticipantStatus string

const (
	ParticipantApplied   ParticipantStatus = "applied"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantRejected  ParticipantStatus = "rejected"
)

// Participant is a user's or a team's registration in a league; exactly one
// of UserID and TeamID is set, depending on the league's participant type.
type Participant struct {
	ID        int               `json:"id" db:"id"`
	LeagueID  int               `json:"league_id" db:"league_id"`
	UserID    *int              `json:"user_id,omitempty" db:"user_id"`
	TeamID    *int              `json:"team_id,omitempty" db:"team_id"`
	Status    ParticipantStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
	Team *Team `json:"team,omitempty" db:"-"`
}
