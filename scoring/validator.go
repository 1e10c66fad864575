package scoring

// ValidateSet judges whether a single set score is tennis-legal. deciding
// reports whether the set is the deciding (third) set of the match; only a
// deciding set may be a super tiebreak.
//
// A nil return means the set is legal; otherwise the error is a
// *ValidationError wrapping one of the rule sentinels.
func ValidateSet(set SetScore, deciding bool) error {
	if set.ReporterGames < 0 || set.OpponentGames < 0 {
		return &ValidationError{Err: ErrInvalidSetScore}
	}

	if set.IsSuperTiebreak {
		return validateSuperTiebreak(set, deciding)
	}
	if set.IsTiebreak {
		return validateTiebreakSet(set)
	}
	return validatePlainSet(set)
}

func validateSuperTiebreak(set SetScore, deciding bool) error {
	if !deciding {
		return &ValidationError{Err: ErrSuperTiebreakNotLast}
	}
	hi, lo := set.ReporterGames, set.OpponentGames
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi < 10 || hi-lo < 2 {
		return &ValidationError{Err: ErrSuperTiebreakNotWon}
	}
	return nil
}

func validateTiebreakSet(set SetScore) error {
	hi, lo := set.ReporterGames, set.OpponentGames
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi != 7 || lo != 6 {
		return &ValidationError{Err: ErrTiebreakOuterScore}
	}
	if set.Tiebreak == nil {
		return &ValidationError{Err: ErrMissingTiebreakDetail}
	}

	// The tiebreak detail must show the set winner taking it.
	winnerPts, loserPts := set.Tiebreak.ReporterPoints, set.Tiebreak.OpponentPoints
	if !set.reporterWon() {
		winnerPts, loserPts = loserPts, winnerPts
	}
	if winnerPts < 7 || winnerPts-loserPts < 2 {
		return &ValidationError{Err: ErrTiebreakNotWon}
	}
	return nil
}

func validatePlainSet(set SetScore) error {
	hi, lo := set.ReporterGames, set.OpponentGames
	if lo > hi {
		hi, lo = lo, hi
	}
	switch {
	case hi == 6 && lo <= 4:
		return nil
	case hi == 7 && lo == 5:
		return nil
	case hi == 7 && lo == 6:
		return &ValidationError{Err: ErrTiebreakFlagRequired}
	case hi < 6:
		return &ValidationError{Err: ErrNotEnoughGames}
	case hi == 6: // 6-5 or 6-6
		return &ValidationError{Err: ErrMustWinByTwo}
	default:
		return &ValidationError{Err: ErrInvalidSetScore}
	}
}

// ValidateMatch judges a full match's set sequence. The first illegal set
// fails the whole match; there is no partial acceptance.
func ValidateMatch(sets []SetScore) error {
	if len(sets) < 2 || len(sets) > 3 {
		return &ValidationError{Err: ErrSetCount}
	}

	for i, set := range sets {
		deciding := i == 2
		if err := ValidateSet(set, deciding); err != nil {
			if verr, ok := err.(*ValidationError); ok {
				return &ValidationError{Set: i + 1, Err: verr.Err}
			}
			return err
		}
	}

	reporterSets, opponentSets := 0, 0
	for _, set := range sets {
		if set.reporterWon() {
			reporterSets++
		} else {
			opponentSets++
		}
	}
	if reporterSets != 2 && opponentSets != 2 {
		return &ValidationError{Err: ErrNoMatchWinner}
	}

	// A third set is only legal to settle a 1-1 tie.
	if len(sets) == 3 && sets[0].reporterWon() == sets[1].reporterWon() {
		return &ValidationError{Err: ErrDeciderNotSplit}
	}
	return nil
}
