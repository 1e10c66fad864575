package scoring

import (
	"errors"
	"fmt"
)

// Rule-level sentinels. Handlers surface these messages to the submitter
// as-is, so they are worded for end users.
var (
	ErrNotEnoughGames        = errors.New("not enough games to win the set")
	ErrMustWinByTwo          = errors.New("the set must be won by a margin of two")
	ErrInvalidSetScore       = errors.New("not a legal set score")
	ErrTiebreakFlagRequired  = errors.New("a 7-6 set must be marked as a tiebreak")
	ErrTiebreakOuterScore    = errors.New("a tiebreak set must end 7-6")
	ErrMissingTiebreakDetail = errors.New("tiebreak point score is required")
	ErrTiebreakNotWon        = errors.New("the tiebreak winner must reach at least 7 points with a margin of two")
	ErrSuperTiebreakNotLast  = errors.New("a super tiebreak is only allowed as the deciding set")
	ErrSuperTiebreakNotWon   = errors.New("the super tiebreak winner must reach at least 10 points with a margin of two")

	ErrSetCount        = errors.New("a match must consist of 2 or 3 sets")
	ErrNoMatchWinner   = errors.New("exactly one side must win exactly two sets")
	ErrDeciderNotSplit = errors.New("a third set is only allowed after a 1-1 split")
)

// Transition sentinels.
var (
	ErrAlreadyFinalized    = errors.New("the match result is already finalized")
	ErrNotFinalized        = errors.New("the match result is not finalized yet")
	ErrBothReportsRequired = errors.New("approval requires score reports from both sides")
	ErrReportMismatch      = errors.New("the score report does not belong to this match")
	ErrUnknownStatus       = errors.New("unknown scoring status")
)

// ValidationError marks a score that is not tennis-legal. Set is the 1-based
// number of the offending set, or 0 for match-level failures.
type ValidationError struct {
	Set int
	Err error
}

func (e *ValidationError) Error() string {
	if e.Set > 0 {
		return fmt.Sprintf("set %d: %v", e.Set, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransitionError marks an operation attempted from a status that forbids it.
type TransitionError struct {
	From ScoringStatus
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("status %q: %v", e.From, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// PreconditionError marks a caller-supplied precondition that was not met.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }
