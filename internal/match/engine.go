package match

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nholm/arrowsync/internal/score"
)

// RecordArrow writes one arrow token into a regular set and re-evaluates
// the whole match. Set numbers are 1-based; the shoot-off set is addressed
// through RecordShootOffArrow. Edits to already-counted sets are accepted
// even after the match is decided, since coaches correct mis-entries; the
// re-evaluation may un-decide the match and that is intended.
func RecordArrow(st *State, side Side, setNumber, slot int, token string) error {
	if setNumber < 1 || setNumber > st.Format.RegularSets {
		return fmt.Errorf("set number %d out of range 1..%d", setNumber, st.Format.RegularSets)
	}
	tokens := st.Sets[setNumber-1].Tokens(side)
	if slot < 0 || slot >= len(tokens) {
		return fmt.Errorf("arrow slot %d out of range 0..%d", slot, len(tokens)-1)
	}
	tokens[slot] = token
	Evaluate(st)
	return nil
}

// RecordShootOffArrow writes one arrow token into the shoot-off set.
func RecordShootOffArrow(st *State, side Side, slot int, token string) error {
	tokens := st.ShootOff.Tokens(side)
	if slot < 0 || slot >= len(tokens) {
		return fmt.Errorf("shoot-off slot %d out of range 0..%d", slot, len(tokens)-1)
	}
	tokens[slot] = token
	Evaluate(st)
	return nil
}

// RecordJudgeCall records the judge's tie-break decision for a shoot-off
// that neither totals nor the arrow-level tie-break could separate. It is
// only meaningful while the match awaits a judge; recording it in any
// other state is rejected so a stray call cannot flip a decided match.
func RecordJudgeCall(st *State, winner Side) error {
	if st.Status != StatusAwaitingJudge {
		return fmt.Errorf("judge call not applicable in status %s", st.Status)
	}
	if winner != SideA && winner != SideB {
		return fmt.Errorf("judge call must name side A or B, got %d", winner)
	}
	st.JudgeWinner = winner
	Evaluate(st)
	log.Info("Judge call recorded", "winner", winner)
	return nil
}

// Evaluate recomputes every derived field from the arrow tokens, in
// ascending set order. Accumulation of match points stops at the first set
// that carries either side to the threshold; later sets keep their own
// totals and points for display but are marked Counted=false so visible
// cells filled in afterwards cannot silently change the outcome.
func Evaluate(st *State) {
	f := st.Format
	st.SetResults = make([]SetResult, len(st.Sets))
	st.PointsA, st.PointsB = 0, 0
	st.Winner = SideNone
	decided := false
	allComplete := true

	for i := range st.Sets {
		set := &st.Sets[i]
		res := SetResult{
			Number:   set.Number,
			TotalA:   score.Total(set.A),
			TotalB:   score.Total(set.B),
			Complete: score.Complete(set.A) && score.Complete(set.B),
		}
		if res.Complete {
			res.PointsA, res.PointsB = score.SetPoints(res.TotalA, res.TotalB)
		} else {
			allComplete = false
		}
		res.Counted = res.Complete && !decided
		if res.Counted {
			st.PointsA += res.PointsA
			st.PointsB += res.PointsB
			if st.PointsA >= f.Threshold || st.PointsB >= f.Threshold {
				decided = true
				if st.PointsA > st.PointsB {
					st.Winner = SideA
				} else if st.PointsB > st.PointsA {
					st.Winner = SideB
				}
			}
		}
		st.SetResults[i] = res
	}

	if decided && st.Winner != SideNone {
		st.Status = StatusDecided
		st.evaluateShootOffDisplay()
		return
	}

	// Shoot-off is only reachable with every regular set complete and both
	// sides tied exactly one point under the threshold.
	if allComplete && st.PointsA == st.PointsB && st.PointsA == f.Threshold-1 {
		st.evaluateShootOff()
		return
	}

	st.Status = StatusInProgress
	st.Winner = SideNone
	st.JudgeWinner = SideNone
	st.evaluateShootOffDisplay()
}

// evaluateShootOff resolves the shoot-off sub-protocol: score comparison,
// then (team only) the high-arrow tie-break, then the judge.
func (st *State) evaluateShootOff() {
	st.evaluateShootOffDisplay()
	res := st.ShootOffResult

	if !res.Complete {
		// Clearing the shoot-off back to incomplete voids any judge call.
		st.JudgeWinner = SideNone
		st.Status = StatusShootOffPending
		st.Winner = SideNone
		return
	}

	// A recorded judge call supersedes recomputation for as long as the
	// shoot-off stays complete, so re-entering the same arrows cannot
	// silently flip the result back to "awaiting judge".
	if st.JudgeWinner != SideNone {
		st.decide(st.JudgeWinner)
		return
	}

	switch {
	case res.TotalA > res.TotalB:
		st.decide(SideA)
		return
	case res.TotalB > res.TotalA:
		st.decide(SideB)
		return
	}

	// Totals tied. Team matches compare the single best arrow with X
	// outranking 10 before involving a judge; solo goes straight to the
	// judge because one arrow per side leaves nothing else to compare.
	if st.Format.Kind == KindTeam {
		maxA := score.MaxTieBreak(st.ShootOff.A)
		maxB := score.MaxTieBreak(st.ShootOff.B)
		switch {
		case maxA > maxB:
			st.decide(SideA)
			return
		case maxB > maxA:
			st.decide(SideB)
			return
		}
	}

	st.Status = StatusAwaitingJudge
	st.Winner = SideNone
}

func (st *State) decide(winner Side) {
	st.Status = StatusDecided
	st.Winner = winner
}

// evaluateShootOffDisplay keeps the shoot-off's own totals current for
// rendering regardless of match phase.
func (st *State) evaluateShootOffDisplay() {
	st.ShootOffResult = SetResult{
		Number:   st.ShootOff.Number,
		TotalA:   score.Total(st.ShootOff.A),
		TotalB:   score.Total(st.ShootOff.B),
		Complete: score.Complete(st.ShootOff.A) && score.Complete(st.ShootOff.B),
	}
	st.ShootOffResult.Counted = st.ShootOffResult.Complete
}

// RunningPoints returns the cumulative counted set points for a side up to
// and including the given set number. Used when building set submissions.
func (st *State) RunningPoints(side Side, setNumber int) int {
	sum := 0
	for _, res := range st.SetResults {
		if res.Number > setNumber || !res.Counted {
			continue
		}
		if side == SideA {
			sum += res.PointsA
		} else {
			sum += res.PointsB
		}
	}
	return sum
}
