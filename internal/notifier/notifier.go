package notifier

import "github.com/nholm/arrowsync/internal/match"

// MatchResult carries everything a decided-match announcement needs, so
// the notification provider never reaches back into scoring state.
type MatchResult struct {
	MatchID  string
	Kind     match.Kind
	SideA    []string // archer display names
	SideB    []string
	Winner   match.Side
	PointsA  int
	PointsB  int
	Sets     []SetLine
	ShootOff *SetLine
	ByJudge  bool
}

// SetLine is one row of the scorecard.
type SetLine struct {
	Number int
	TotalA int
	TotalB int
}

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific
// notification provider (e.g., Slack).
type Notifier interface {
	SendMatchDecided(result *MatchResult, dryRun bool) error
}
