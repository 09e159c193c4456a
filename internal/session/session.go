// Package session persists the operator's current match so a crash or
// restart lands back on the same scoresheet. Only identifiers and roster
// metadata are stored; arrow data is rebuilt from the server on restore and
// local derived scores are never trusted.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/storage"
)

const currentKey = "session/current"

// ViewScoring marks a saved session as a live scoresheet; restore drops
// the operator straight back into scoring.
const ViewScoring = "scoring"

// State is the durable snapshot of the live match. Maps are keyed by wire
// seat position (1..2 for solo, 1..6 for team).
type State struct {
	MatchID        string         `json:"match_id"`
	Kind           match.Kind     `json:"kind"`
	ViewMode       string         `json:"view_mode,omitempty"`
	DateKey        string         `json:"date_key"`
	EventID        string         `json:"event_id,omitempty"`
	Location       string         `json:"location,omitempty"`
	TeamIDs        map[int]string `json:"team_ids,omitempty"`
	ParticipantIDs map[int]string `json:"participant_ids"`
	ArcherKeys     map[int]string `json:"archer_keys"`
	ArcherNames    map[int]string `json:"archer_names"`
}

// Manager reads and writes the single current-session slot.
type Manager struct {
	store storage.Store
}

func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Save(s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return m.store.Set(currentKey, string(raw))
}

// Load returns the saved session and whether one exists.
func (m *Manager) Load() (*State, bool, error) {
	raw, ok, err := m.store.Get(currentKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, true, nil
}

func (m *Manager) Clear() error {
	return m.store.Remove(currentKey)
}

// SeatSide maps a wire seat position to a scoring side: positions
// 1..ArchersPerSide belong to side A, the next block to side B.
func SeatSide(f match.Format, position int) match.Side {
	switch {
	case position >= 1 && position <= f.ArchersPerSide:
		return match.SideA
	case position > f.ArchersPerSide && position <= 2*f.ArchersPerSide:
		return match.SideB
	}
	return match.SideNone
}

// SeatIndex returns the archer's zero-based index within their side.
func SeatIndex(f match.Format, position int) int {
	return (position - 1) % f.ArchersPerSide
}

// Rebuild reconstructs a scoring state from the server's submitted arrows
// by replaying every arrow through the evaluator. Set number
// RegularSets+1 addresses the shoot-off. A judge call is not an arrow and
// does not survive the round-trip; a tied shoot-off comes back as
// awaiting the judge again.
func Rebuild(kind match.Kind, participants []gateway.MatchParticipant) (*match.State, error) {
	f := match.FormatFor(kind)
	st := match.New(f)
	perArcher := f.ArrowsPerSet / f.ArchersPerSide
	shootOffPerArcher := f.ShootOffArrows / f.ArchersPerSide

	for _, p := range participants {
		side := SeatSide(f, p.Position)
		if side == match.SideNone {
			return nil, fmt.Errorf("seat position %d out of range for %s match", p.Position, kind)
		}
		idx := SeatIndex(f, p.Position)
		for _, s := range p.Sets {
			switch {
			case s.SetNumber >= 1 && s.SetNumber <= f.RegularSets:
				for j, token := range s.Arrows {
					if j >= perArcher || token == "" {
						continue
					}
					if err := match.RecordArrow(st, side, s.SetNumber, idx*perArcher+j, token); err != nil {
						return nil, err
					}
				}
			case s.SetNumber == f.RegularSets+1:
				for j, token := range s.Arrows {
					if j >= shootOffPerArcher || token == "" {
						continue
					}
					if err := match.RecordShootOffArrow(st, side, idx*shootOffPerArcher+j, token); err != nil {
						return nil, err
					}
				}
			default:
				return nil, fmt.Errorf("set number %d out of range for %s match", s.SetNumber, kind)
			}
		}
	}
	return st, nil
}
