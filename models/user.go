package models

import "time"

type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}
