package scoring

import (
	"errors"
	"testing"
)

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name     string
		set      SetScore
		deciding bool
		wantErr  error
	}{
		{name: "6-0", set: SetScore{ReporterGames: 6, OpponentGames: 0}},
		{name: "6-4", set: SetScore{ReporterGames: 6, OpponentGames: 4}},
		{name: "0-6 mirror", set: SetScore{ReporterGames: 0, OpponentGames: 6}},
		{name: "4-6 mirror", set: SetScore{ReporterGames: 4, OpponentGames: 6}},
		{name: "7-5", set: SetScore{ReporterGames: 7, OpponentGames: 5}},
		{name: "5-7 mirror", set: SetScore{ReporterGames: 5, OpponentGames: 7}},
		{
			name:    "7-6 without tiebreak flag",
			set:     SetScore{ReporterGames: 7, OpponentGames: 6},
			wantErr: ErrTiebreakFlagRequired,
		},
		{
			name:    "6-7 without tiebreak flag",
			set:     SetScore{ReporterGames: 6, OpponentGames: 7},
			wantErr: ErrTiebreakFlagRequired,
		},
		{
			name:    "unfinished set",
			set:     SetScore{ReporterGames: 5, OpponentGames: 3},
			wantErr: ErrNotEnoughGames,
		},
		{
			name:    "6-5 margin of one",
			set:     SetScore{ReporterGames: 6, OpponentGames: 5},
			wantErr: ErrMustWinByTwo,
		},
		{
			name:    "6-6 undecided",
			set:     SetScore{ReporterGames: 6, OpponentGames: 6},
			wantErr: ErrMustWinByTwo,
		},
		{
			name:    "8-6 advantage set",
			set:     SetScore{ReporterGames: 8, OpponentGames: 6},
			wantErr: ErrInvalidSetScore,
		},
		{
			name:    "negative games",
			set:     SetScore{ReporterGames: -1, OpponentGames: 6},
			wantErr: ErrInvalidSetScore,
		},
		{
			name: "tiebreak set with detail",
			set: SetScore{
				ReporterGames: 7, OpponentGames: 6,
				IsTiebreak: true,
				Tiebreak:   &TiebreakScore{ReporterPoints: 7, OpponentPoints: 5},
			},
		},
		{
			name: "lost tiebreak set with detail",
			set: SetScore{
				ReporterGames: 6, OpponentGames: 7,
				IsTiebreak: true,
				Tiebreak:   &TiebreakScore{ReporterPoints: 7, OpponentPoints: 9},
			},
		},
		{
			name: "tiebreak detail missing",
			set: SetScore{
				ReporterGames: 7, OpponentGames: 6,
				IsTiebreak: true,
			},
			wantErr: ErrMissingTiebreakDetail,
		},
		{
			name: "tiebreak decided by one point",
			set: SetScore{
				ReporterGames: 7, OpponentGames: 6,
				IsTiebreak: true,
				Tiebreak:   &TiebreakScore{ReporterPoints: 7, OpponentPoints: 6},
			},
			wantErr: ErrTiebreakNotWon,
		},
		{
			name: "tiebreak detail contradicts set winner",
			set: SetScore{
				ReporterGames: 7, OpponentGames: 6,
				IsTiebreak: true,
				Tiebreak:   &TiebreakScore{ReporterPoints: 4, OpponentPoints: 7},
			},
			wantErr: ErrTiebreakNotWon,
		},
		{
			name: "tiebreak flag with wrong outer score",
			set: SetScore{
				ReporterGames: 6, OpponentGames: 4,
				IsTiebreak: true,
				Tiebreak:   &TiebreakScore{ReporterPoints: 7, OpponentPoints: 5},
			},
			wantErr: ErrTiebreakOuterScore,
		},
		{
			name:     "super tiebreak as decider",
			set:      SetScore{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
			deciding: true,
		},
		{
			name:     "long super tiebreak",
			set:      SetScore{ReporterGames: 12, OpponentGames: 10, IsSuperTiebreak: true},
			deciding: true,
		},
		{
			name:    "super tiebreak outside the decider",
			set:     SetScore{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
			wantErr: ErrSuperTiebreakNotLast,
		},
		{
			name:     "super tiebreak below ten points",
			set:      SetScore{ReporterGames: 9, OpponentGames: 7, IsSuperTiebreak: true},
			deciding: true,
			wantErr:  ErrSuperTiebreakNotWon,
		},
		{
			name:     "super tiebreak margin of one",
			set:      SetScore{ReporterGames: 10, OpponentGames: 9, IsSuperTiebreak: true},
			deciding: true,
			wantErr:  ErrSuperTiebreakNotWon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSet(tt.set, tt.deciding)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected legal set, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateSetAllPlainWinningScores(t *testing.T) {
	for lo := 0; lo <= 4; lo++ {
		if err := ValidateSet(SetScore{ReporterGames: 6, OpponentGames: lo}, false); err != nil {
			t.Errorf("6-%d should be legal: %v", lo, err)
		}
		if err := ValidateSet(SetScore{ReporterGames: lo, OpponentGames: 6}, false); err != nil {
			t.Errorf("%d-6 should be legal: %v", lo, err)
		}
	}
}

func TestValidateMatch(t *testing.T) {
	win := SetScore{ReporterGames: 6, OpponentGames: 4}
	loss := SetScore{ReporterGames: 3, OpponentGames: 6}

	tests := []struct {
		name    string
		sets    []SetScore
		wantErr error
	}{
		{name: "straight sets win", sets: []SetScore{win, win}},
		{name: "straight sets loss", sets: []SetScore{loss, loss}},
		{name: "three set win", sets: []SetScore{win, loss, win}},
		{name: "empty", sets: nil, wantErr: ErrSetCount},
		{name: "single set", sets: []SetScore{win}, wantErr: ErrSetCount},
		{name: "four sets", sets: []SetScore{win, loss, win, win}, wantErr: ErrSetCount},
		{name: "one set each", sets: []SetScore{win, loss}, wantErr: ErrNoMatchWinner},
		{name: "third set after 2-0", sets: []SetScore{win, win, loss}, wantErr: ErrDeciderNotSplit},
		{name: "sweep of all three sets", sets: []SetScore{win, win, win}, wantErr: ErrNoMatchWinner},
		{
			name:    "illegal set fails the whole match",
			sets:    []SetScore{win, {ReporterGames: 6, OpponentGames: 5}},
			wantErr: ErrMustWinByTwo,
		},
		{
			name: "super tiebreak decider",
			sets: []SetScore{
				win,
				loss,
				{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
			},
		},
		{
			name: "super tiebreak in second set",
			sets: []SetScore{
				win,
				{ReporterGames: 10, OpponentGames: 7, IsSuperTiebreak: true},
			},
			wantErr: ErrSuperTiebreakNotLast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMatch(tt.sets)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected legal match, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateMatchReportsOffendingSet(t *testing.T) {
	sets := []SetScore{
		{ReporterGames: 6, OpponentGames: 4},
		{ReporterGames: 5, OpponentGames: 4},
	}
	err := ValidateMatch(sets)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Set != 2 {
		t.Errorf("expected failure attributed to set 2, got set %d", verr.Set)
	}
}
