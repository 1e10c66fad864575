package models

import "time"

// LeagueStatus represents the league lifecycle, matching the ENUM in the DB.
type LeagueStatus string

const (
	LeagueStatusSoon         LeagueStatus = "soon"
	LeagueStatusRegistration LeagueStatus = "registration"
	LeagueStatusActive       LeagueStatus = "active"
	LeagueStatusCompleted    LeagueStatus = "completed"
	LeagueStatusCanceled     LeagueStatus = "canceled"
)

// LeagueParticipantType tells whether league members compete as individual
// players or as teams.
type LeagueParticipantType string

const (
	LeagueParticipantSolo LeagueParticipantType = "solo"
	LeagueParticipantTeam LeagueParticipantType = "team"
)

type League struct {
	ID              int                   `json:"id" db:"id"`
	Name            string                `json:"name" db:"name"`
	Description     *string               `json:"description,omitempty" db:"description"`
	OrganizerID     int                   `json:"organizer_id" db:"organizer_id"`
	ParticipantType LeagueParticipantType `json:"participant_type" db:"participant_type"`
	RegDate         time.Time             `json:"reg_date" db:"reg_date"`
	StartDate       time.Time             `json:"start_date" db:"start_date"`
	EndDate         time.Time             `json:"end_date" db:"end_date"`
	Location        *string               `json:"location,omitempty" db:"location"`
	Status          LeagueStatus          `json:"status" db:"status"`
	MaxParticipants int                   `json:"max_participants" db:"max_participants"`
	CreatedAt       time.Time             `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Organizer    *User         `json:"organizer,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
