package scoring

import (
	"errors"
	"testing"
)

func validSets() []SetScore {
	return []SetScore{
		{ReporterGames: 6, OpponentGames: 4},
		{ReporterGames: 6, OpponentGames: 3},
	}
}

func TestSubmitReportTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current ScoringStatus
		side    Side
		want    ScoringStatus
	}{
		{name: "first report from home", current: ScoringPending, side: SideHome, want: ScoringReportedHome},
		{name: "first report from away", current: ScoringPending, side: SideAway, want: ScoringReportedAway},
		{name: "home resubmits", current: ScoringReportedHome, side: SideHome, want: ScoringReportedHome},
		{name: "away answers home", current: ScoringReportedHome, side: SideAway, want: ScoringReportedBoth},
		{name: "away resubmits", current: ScoringReportedAway, side: SideAway, want: ScoringReportedAway},
		{name: "home answers away", current: ScoringReportedAway, side: SideHome, want: ScoringReportedBoth},
		{name: "resubmission after both", current: ScoringReportedBoth, side: SideHome, want: ScoringReportedBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubmitReport(tt.current, tt.side, validSets(), true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected status %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSubmitReportOrderIndependence(t *testing.T) {
	first, err := SubmitReport(ScoringPending, SideHome, validSets(), true)
	if err != nil {
		t.Fatal(err)
	}
	viaHome, err := SubmitReport(first, SideAway, validSets(), true)
	if err != nil {
		t.Fatal(err)
	}

	first, err = SubmitReport(ScoringPending, SideAway, validSets(), true)
	if err != nil {
		t.Fatal(err)
	}
	viaAway, err := SubmitReport(first, SideHome, validSets(), true)
	if err != nil {
		t.Fatal(err)
	}

	if viaHome != ScoringReportedBoth || viaAway != ScoringReportedBoth {
		t.Errorf("both orders must converge on %q, got %q and %q", ScoringReportedBoth, viaHome, viaAway)
	}
}

func TestSubmitReportRejections(t *testing.T) {
	t.Run("match not yet played", func(t *testing.T) {
		got, err := SubmitReport(ScoringPending, SideHome, validSets(), false)
		var perr *PreconditionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *PreconditionError, got %v", err)
		}
		if got != ScoringPending {
			t.Errorf("status must be untouched, got %q", got)
		}
	})

	t.Run("already finalized", func(t *testing.T) {
		for _, status := range []ScoringStatus{ScoringApproved, ScoringManagerEntered} {
			got, err := SubmitReport(status, SideHome, validSets(), true)
			if !errors.Is(err, ErrAlreadyFinalized) {
				t.Fatalf("expected ErrAlreadyFinalized from %q, got %v", status, err)
			}
			if got != status {
				t.Errorf("status must be untouched, got %q", got)
			}
		}
	})

	t.Run("invalid score leaves the status untouched", func(t *testing.T) {
		bad := []SetScore{{ReporterGames: 6, OpponentGames: 5}, {ReporterGames: 6, OpponentGames: 1}}
		got, err := SubmitReport(ScoringReportedHome, SideAway, bad, true)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if got != ScoringReportedHome {
			t.Errorf("status must be untouched, got %q", got)
		}
	})
}

func TestApprove(t *testing.T) {
	report := Report{ID: 11, MatchID: 42, Sets: []SetScore{
		{ReporterGames: 4, OpponentGames: 6},
		{ReporterGames: 6, OpponentGames: 2},
		{ReporterGames: 10, OpponentGames: 8, IsSuperTiebreak: true},
	}}

	t.Run("finalizes from the away reporter's perspective", func(t *testing.T) {
		final, err := Approve(ScoringReportedBoth, report, 42, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if final.Status != ScoringApproved {
			t.Errorf("expected status %q, got %q", ScoringApproved, final.Status)
		}
		if final.ReportID == nil || *final.ReportID != 11 {
			t.Errorf("expected report id 11, got %v", final.ReportID)
		}
		// Reporter won 2-1, so the home side lost 1-2.
		if final.SetsWonHome != 1 || final.SetsWonAway != 2 {
			t.Errorf("expected sets 1-2, got %d-%d", final.SetsWonHome, final.SetsWonAway)
		}
		// Reporter games 4+6+1=11, opponent 6+2+1=9, mirrored onto home.
		if final.GamesWonHome != 9 || final.GamesWonAway != 11 {
			t.Errorf("expected games 9-11, got %d-%d", final.GamesWonHome, final.GamesWonAway)
		}
	})

	t.Run("requires both reports", func(t *testing.T) {
		for _, status := range []ScoringStatus{ScoringPending, ScoringReportedHome, ScoringReportedAway} {
			if _, err := Approve(status, report, 42, true); !errors.Is(err, ErrBothReportsRequired) {
				t.Errorf("expected ErrBothReportsRequired from %q, got %v", status, err)
			}
		}
	})

	t.Run("rejects a second approval", func(t *testing.T) {
		if _, err := Approve(ScoringApproved, report, 42, true); !errors.Is(err, ErrAlreadyFinalized) {
			t.Errorf("expected ErrAlreadyFinalized, got %v", err)
		}
	})

	t.Run("rejects a foreign report", func(t *testing.T) {
		if _, err := Approve(ScoringReportedBoth, report, 7, true); !errors.Is(err, ErrReportMismatch) {
			t.Errorf("expected ErrReportMismatch, got %v", err)
		}
	})
}

func TestEnterManually(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 6, OpponentGames: 4},
		{ReporterGames: 7, OpponentGames: 6, IsTiebreak: true,
			Tiebreak: &TiebreakScore{ReporterPoints: 7, OpponentPoints: 4}},
	}

	for _, status := range []ScoringStatus{ScoringPending, ScoringReportedHome, ScoringReportedBoth} {
		final, err := EnterManually(status, sets)
		if err != nil {
			t.Fatalf("unexpected error from %q: %v", status, err)
		}
		if final.Status != ScoringManagerEntered {
			t.Errorf("expected status %q, got %q", ScoringManagerEntered, final.Status)
		}
		if final.ReportID != nil {
			t.Errorf("manager entry must not reference a report, got %v", final.ReportID)
		}
		if final.SetsWonHome != 2 || final.SetsWonAway != 0 {
			t.Errorf("expected sets 2-0, got %d-%d", final.SetsWonHome, final.SetsWonAway)
		}
	}

	if _, err := EnterManually(ScoringManagerEntered, sets); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("expected ErrAlreadyFinalized, got %v", err)
	}

	bad := []SetScore{{ReporterGames: 6, OpponentGames: 4}}
	if _, err := EnterManually(ScoringPending, bad); !errors.Is(err, ErrSetCount) {
		t.Errorf("expected ErrSetCount, got %v", err)
	}
}

func TestEditFinal(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 3, OpponentGames: 6},
		{ReporterGames: 2, OpponentGames: 6},
	}

	for _, status := range []ScoringStatus{ScoringApproved, ScoringManagerEntered} {
		final, err := EditFinal(status, sets)
		if err != nil {
			t.Fatalf("unexpected error from %q: %v", status, err)
		}
		if final.Status != status {
			t.Errorf("editing must keep status %q, got %q", status, final.Status)
		}
		if final.SetsWonHome != 0 || final.SetsWonAway != 2 {
			t.Errorf("expected sets 0-2, got %d-%d", final.SetsWonHome, final.SetsWonAway)
		}
	}

	if _, err := EditFinal(ScoringReportedBoth, sets); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("expected ErrNotFinalized, got %v", err)
	}
}
