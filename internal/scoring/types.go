package scoring

import (
	"strings"

	"github.com/nholm/arrowsync/internal/match"
)

// Archer is the locally entered roster data for one seat.
type Archer struct {
	Key    string  `json:"key,omitempty"`
	Name   string  `json:"name"`
	School string  `json:"school,omitempty"`
	Level  string  `json:"level,omitempty"`
	Gender string  `json:"gender,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// KeyFor derives the stable roster key for an archer from name and school.
// The key is what makes profile resubmission an overwrite on the server.
func KeyFor(name, school string) string {
	slug := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(strings.TrimSpace(s)) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
			case r == ' ' || r == '-' || r == '_':
				b.WriteRune('-')
			}
		}
		return strings.Trim(b.String(), "-")
	}
	key := slug(name)
	if s := slug(school); s != "" {
		key += "." + s
	}
	return key
}

// NewMatchParams describes the match to start. Date defaults to today;
// ForceNew bypasses the identity cache after a reset.
type NewMatchParams struct {
	Kind      match.Kind `json:"kind"`
	Date      string     `json:"date,omitempty"`
	EventID   string     `json:"event_id,omitempty"`
	Location  string     `json:"location,omitempty"`
	TeamNameA string     `json:"team_name_a,omitempty"`
	TeamNameB string     `json:"team_name_b,omitempty"`
	SideA     []Archer   `json:"side_a"`
	SideB     []Archer   `json:"side_b"`
	ForceNew  bool       `json:"force_new"`
}

// MatchView is the render-ready snapshot handed to the HTTP layer.
type MatchView struct {
	MatchID     string            `json:"match_id"`
	Kind        match.Kind        `json:"kind"`
	Status      match.Status      `json:"status"`
	Winner      match.Side        `json:"winner"`
	PointsA     int               `json:"points_a"`
	PointsB     int               `json:"points_b"`
	Sets        []match.SetResult `json:"sets"`
	ShootOff    match.SetResult   `json:"shoot_off"`
	ArchersA    []string          `json:"archers_a"`
	ArchersB    []string          `json:"archers_b"`
	PendingSync int               `json:"pending_sync"`
}
