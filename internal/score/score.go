// Package score holds the arrow-value arithmetic and per-set evaluation
// shared by the solo and team match engines. Everything here is pure; the
// state machine in internal/match decides what the numbers mean.
package score

import "strconv"

// Arrow tokens as entered on the keypad. An empty token means "not yet
// scored" and is distinct from "M" (a miss). Callers that care about the
// difference must check for emptiness before asking for a value.
const (
	TokenX    = "X"
	TokenMiss = "M"
)

// Value converts an arrow token to its numeric value. "X" counts as 10,
// "M" and the empty token count as 0. Tokens outside the recognized
// vocabulary also score 0 rather than erroring; the keypad restricts
// entry, but stray input must never take the engine down.
func Value(token string) int {
	switch token {
	case TokenX:
		return 10
	case TokenMiss, "":
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n > 10 {
		return 0
	}
	return n
}

// TieBreakValue is Value with "X" ranked strictly above a plain 10, so a
// shoot-off tie resolves in favor of the side holding the X. It is only
// ever used for ordering, never summed into a total.
func TieBreakValue(token string) float64 {
	if token == TokenX {
		return 10.1
	}
	return float64(Value(token))
}

// Complete reports whether every slot holds a non-empty token.
func Complete(tokens []string) bool {
	for _, t := range tokens {
		if t == "" {
			return false
		}
	}
	return len(tokens) > 0
}

// Total sums the values of all slots. It is deliberately not gated on
// completeness: callers wanting provisional progress read this directly,
// callers wanting a scoreable set check Complete first.
func Total(tokens []string) int {
	sum := 0
	for _, t := range tokens {
		sum += Value(t)
	}
	return sum
}

// SetPoints awards the set points for a completed set: 2 to the higher
// total, 1 each on a tie. Incomplete sets must not be passed here; they
// contribute (0,0) by never being evaluated.
func SetPoints(totalA, totalB int) (int, int) {
	switch {
	case totalA > totalB:
		return 2, 0
	case totalB > totalA:
		return 0, 2
	default:
		return 1, 1
	}
}

// Tens counts arrows scoring 10, X included. Reported to the remote store
// alongside each set submission.
func Tens(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if Value(t) == 10 {
			n++
		}
	}
	return n
}

// Xs counts inner-ten arrows.
func Xs(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if t == TokenX {
			n++
		}
	}
	return n
}

// MaxTieBreak returns the highest TieBreakValue among the tokens. Used by
// the team shoot-off arithmetic tie-break.
func MaxTieBreak(tokens []string) float64 {
	max := 0.0
	for _, t := range tokens {
		if v := TieBreakValue(t); v > max {
			max = v
		}
	}
	return max
}
