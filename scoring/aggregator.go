package scoring

// HomeAwayTotals is a match score reprojected from the reporter's frame onto
// the fixed home/away orientation of the match. Sets holds the normalized
// set list in the home perspective (reporter == home).
type HomeAwayTotals struct {
	SetsWonHome  int
	SetsWonAway  int
	GamesWonHome int
	GamesWonAway int
	Sets         []SetScore
}

// GameTotals derives reporter-centric game totals from a set list.
//
// A tiebreak set counts 6 games each way plus one extra game for the winner;
// a super tiebreak counts a single game each way regardless of the point
// margin. League standings depend on these exact totals, so the
// approximation must not change without a rules decision.
func GameTotals(sets []SetScore) (won, lost int) {
	for _, set := range sets {
		switch {
		case set.IsSuperTiebreak:
			won++
			lost++
		case set.IsTiebreak:
			won += 6
			lost += 6
			if set.reporterWon() {
				won++
			} else {
				lost++
			}
		default:
			won += set.ReporterGames
			lost += set.OpponentGames
		}
	}
	return won, lost
}

// ToHomeAway reprojects a reporter-centric set list into the home/away frame.
// Calling it with reporterIsHome=false yields exactly the mirror of calling
// it with reporterIsHome=true on the same sets.
func ToHomeAway(sets []SetScore, reporterIsHome bool) HomeAwayTotals {
	out := HomeAwayTotals{Sets: make([]SetScore, len(sets))}
	for i, set := range sets {
		normalized := set
		if !reporterIsHome {
			normalized = set.Swapped()
		}
		out.Sets[i] = normalized
		if normalized.reporterWon() {
			out.SetsWonHome++
		} else {
			out.SetsWonAway++
		}
	}

	won, lost := GameTotals(sets)
	if reporterIsHome {
		out.GamesWonHome, out.GamesWonAway = won, lost
	} else {
		out.GamesWonHome, out.GamesWonAway = lost, won
	}
	return out
}
