package services

import "errors"

// Shared sentinels used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrLeagueNameRequired    = errors.New("league name is required")
	ErrUserAlreadyInTeam     = errors.New("user is already in a team")
	ErrUserNotInTeam         = errors.New("user is not in a team")
	ErrCannotRemoveCaptain   = errors.New("cannot remove the team captain")
	ErrInviteExpired         = errors.New("invite has expired")
	ErrRegistrationNotOpen   = errors.New("league registration is not open")
	ErrLeagueFull            = errors.New("league registration is full")
	ErrParticipantTypeWrong  = errors.New("registration does not match the league participant type")
	ErrLeagueInvalidRegDate  = errors.New("league registration must close before the start date")
	ErrLeagueInvalidDates    = errors.New("league end date must be after start date")
	ErrLeagueInvalidCapacity = errors.New("league max participants must be positive")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrLeagueNameConflict   = errors.New("league name already exists")
	ErrRegistrationConflict = errors.New("user or team is already registered for this league")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrCaptainActionForbidden = errors.New("only the team captain can perform this action")
	ErrOrganizerOnly          = errors.New("only the league organizer can perform this action")

	// Entity-specific not-found, for more context than the generic one
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrLeagueNotFound      = errors.New("league not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrScoreReportNotFound = errors.New("score report not found")

	// Score lifecycle
	ErrNotMatchParticipant      = errors.New("user does not play in this match")
	ErrMatchNotPlayable         = errors.New("the match is not ready for score reporting")
	ErrMatchAlreadyFinalized    = errors.New("the match result is already finalized")
	ErrMatchNotFinalized        = errors.New("the match result is not finalized yet")
	ErrReportNotForMatch        = errors.New("the score report does not belong to this match")
	ErrBothReportsRequired      = errors.New("approval requires score reports from both sides")
	ErrScoringConflict          = errors.New("the match result changed concurrently, reload and retry")
	ErrScheduleAlreadyGenerated = errors.New("the league schedule has already been generated")
	ErrNotEnoughParticipants    = errors.New("not enough confirmed participants to generate a schedule")
)
