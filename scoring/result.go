package scoring

// ScoringStatus is the match result lifecycle state, persisted as an ENUM in
// the database. It is owned exclusively by this package: every transition is
// a function of the current status and the incoming event.
type ScoringStatus string

const (
	ScoringPending        ScoringStatus = "pending"
	ScoringReportedHome   ScoringStatus = "reported_by_home"
	ScoringReportedAway   ScoringStatus = "reported_by_away"
	ScoringReportedBoth   ScoringStatus = "reported_by_both"
	ScoringApproved       ScoringStatus = "approved"
	ScoringManagerEntered ScoringStatus = "manager_entered"
)

// Terminal reports whether the status carries a finalized, authoritative
// result. Terminal statuses never transition to anything else.
func (s ScoringStatus) Terminal() bool {
	return s == ScoringApproved || s == ScoringManagerEntered
}

func (s ScoringStatus) Valid() bool {
	switch s {
	case ScoringPending, ScoringReportedHome, ScoringReportedAway,
		ScoringReportedBoth, ScoringApproved, ScoringManagerEntered:
		return true
	}
	return false
}

// Side identifies which of the two fixed match orientations a reporter
// represents. Resolving a user to a side is the caller's job.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Report is a persisted score claim as seen by the state machine.
type Report struct {
	ID      int
	MatchID int
	Sets    []SetScore
}

// FinalizedResult carries the authoritative home/away numbers of a finalized
// match. ReportID is nil when the result was entered or edited by a manager
// rather than derived from a participant's report.
type FinalizedResult struct {
	Status       ScoringStatus
	ReportID     *int
	SetsWonHome  int
	SetsWonAway  int
	GamesWonHome int
	GamesWonAway int
	Sets         []SetScore
}

// SubmitReport computes the status a match moves to when side submits the
// given reporter-centric sets. played is the caller-checked condition that
// the match has actually been contested. The sets are fully revalidated on
// every submission; an invalid score leaves the status untouched.
//
// A repeat submission from a side that is already on record keeps the
// status; replacing the stored report row is the storage layer's concern.
func SubmitReport(current ScoringStatus, side Side, sets []SetScore, played bool) (ScoringStatus, error) {
	if !played {
		return current, &PreconditionError{Reason: "the match is not ready for score reporting"}
	}
	if current.Terminal() {
		return current, &TransitionError{From: current, Err: ErrAlreadyFinalized}
	}
	if err := ValidateMatch(sets); err != nil {
		return current, err
	}

	switch current {
	case ScoringPending:
		if side == SideHome {
			return ScoringReportedHome, nil
		}
		return ScoringReportedAway, nil
	case ScoringReportedHome:
		if side == SideHome {
			return ScoringReportedHome, nil
		}
		return ScoringReportedBoth, nil
	case ScoringReportedAway:
		if side == SideAway {
			return ScoringReportedAway, nil
		}
		return ScoringReportedBoth, nil
	case ScoringReportedBoth:
		return ScoringReportedBoth, nil
	default:
		return current, &TransitionError{From: current, Err: ErrUnknownStatus}
	}
}

// Approve finalizes a match from the chosen report. It requires both sides
// to be on record and the report to belong to the match, and re-derives all
// totals from the report's raw sets so the finalized numbers are always
// reproducible from the stored sets alone.
func Approve(current ScoringStatus, report Report, matchID int, reporterIsHome bool) (*FinalizedResult, error) {
	if current.Terminal() {
		return nil, &TransitionError{From: current, Err: ErrAlreadyFinalized}
	}
	if current != ScoringReportedBoth {
		return nil, &TransitionError{From: current, Err: ErrBothReportsRequired}
	}
	if report.MatchID != matchID {
		return nil, &TransitionError{From: current, Err: ErrReportMismatch}
	}
	if err := ValidateMatch(report.Sets); err != nil {
		return nil, err
	}

	totals := ToHomeAway(report.Sets, reporterIsHome)
	reportID := report.ID
	return &FinalizedResult{
		Status:       ScoringApproved,
		ReportID:     &reportID,
		SetsWonHome:  totals.SetsWonHome,
		SetsWonAway:  totals.SetsWonAway,
		GamesWonHome: totals.GamesWonHome,
		GamesWonAway: totals.GamesWonAway,
		Sets:         totals.Sets,
	}, nil
}

// EnterManually finalizes a match directly from a manager-supplied,
// home-perspective set list, bypassing report reconciliation.
func EnterManually(current ScoringStatus, sets []SetScore) (*FinalizedResult, error) {
	if current.Terminal() {
		return nil, &TransitionError{From: current, Err: ErrAlreadyFinalized}
	}
	if err := ValidateMatch(sets); err != nil {
		return nil, err
	}

	totals := ToHomeAway(sets, true)
	return &FinalizedResult{
		Status:       ScoringManagerEntered,
		SetsWonHome:  totals.SetsWonHome,
		SetsWonAway:  totals.SetsWonAway,
		GamesWonHome: totals.GamesWonHome,
		GamesWonAway: totals.GamesWonAway,
		Sets:         totals.Sets,
	}, nil
}

// EditFinal recomputes the finalized numbers of an already finalized match
// from a corrected, home-perspective set list. The status itself does not
// change; the report link is dropped because the stored report no longer
// backs the result.
func EditFinal(current ScoringStatus, sets []SetScore) (*FinalizedResult, error) {
	if !current.Terminal() {
		return nil, &TransitionError{From: current, Err: ErrNotFinalized}
	}
	if err := ValidateMatch(sets); err != nil {
		return nil, err
	}

	totals := ToHomeAway(sets, true)
	return &FinalizedResult{
		Status:       current,
		SetsWonHome:  totals.SetsWonHome,
		SetsWonAway:  totals.SetsWonAway,
		GamesWonHome: totals.GamesWonHome,
		GamesWonAway: totals.GamesWonAway,
		Sets:         totals.Sets,
	}, nil
}
