// Package identity maps transient local references (the current match,
// each archer seat, each team) to their server-issued identifiers, and
// memoizes the mapping durably so a page reload or restart never
// re-creates entities the server already knows about.
package identity

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/storage"
)

// Resolver memoizes server identifiers in the storage port. Entries never
// expire on their own: a match reset must Evict explicitly, or the stale
// identifier will be reused by the next match attempt.
type Resolver struct {
	store storage.Store
	gw    gateway.Client
}

// New creates a new Resolver.
func New(store storage.Store, gw gateway.Client) *Resolver {
	return &Resolver{store: store, gw: gw}
}

func matchKey(kind match.Kind, dateKey, eventKey string) string {
	if eventKey == "" {
		eventKey = "standalone"
	}
	return fmt.Sprintf("identity/match/%s/%s/%s", kind, dateKey, eventKey)
}

func teamKey(matchID string, teamNumber int) string {
	return fmt.Sprintf("identity/team/%s/%d", matchID, teamNumber)
}

func participantKey(matchID string, position int) string {
	return fmt.Sprintf("identity/participant/%s/%d", matchID, position)
}

// ResolveMatch returns the server identifier for (kind, dateKey, eventKey),
// creating it remotely on first use. With forceNew the cache is bypassed
// and overwritten, which is how "start new match" avoids resuming the
// previous one. Creation failure propagates: a match cannot start without
// a server identifier.
func (r *Resolver) ResolveMatch(ctx context.Context, kind match.Kind, dateKey, eventKey string, forceNew bool) (string, error) {
	key := matchKey(kind, dateKey, eventKey)
	if !forceNew {
		if id, ok, err := r.store.Get(key); err != nil {
			return "", fmt.Errorf("read identity cache: %w", err)
		} else if ok {
			log.Debug("Identity cache hit for match", "key", key, "matchID", id)
			return id, nil
		}
	}

	format := match.FormatFor(kind)
	id, err := r.gw.CreateMatch(ctx, gateway.CreateMatchRequest{
		Kind:     string(kind),
		Date:     dateKey,
		EventID:  eventKey,
		MaxSets:  format.RegularSets,
		ForceNew: forceNew,
	})
	if err != nil {
		return "", fmt.Errorf("resolve match identity: %w", err)
	}
	if err := r.store.Set(key, id); err != nil {
		return "", fmt.Errorf("cache match identity: %w", err)
	}
	log.Info("Resolved new match identity", "key", key, "matchID", id)
	return id, nil
}

// ResolveTeam memoizes the server team row for one side of a team match.
func (r *Resolver) ResolveTeam(ctx context.Context, matchID string, teamNumber int, name string) (string, error) {
	key := teamKey(matchID, teamNumber)
	if id, ok, err := r.store.Get(key); err != nil {
		return "", fmt.Errorf("read identity cache: %w", err)
	} else if ok {
		return id, nil
	}

	id, err := r.gw.CreateTeam(ctx, gateway.CreateTeamRequest{
		MatchID:    matchID,
		TeamNumber: teamNumber,
		Name:       name,
	})
	if err != nil {
		return "", fmt.Errorf("resolve team identity: %w", err)
	}
	if err := r.store.Set(key, id); err != nil {
		return "", fmt.Errorf("cache team identity: %w", err)
	}
	log.Info("Resolved new team identity", "matchID", matchID, "teamNumber", teamNumber, "teamID", id)
	return id, nil
}

// ResolveParticipant memoizes the participant row for one seat, so reloads
// of the same session never create duplicate rows.
func (r *Resolver) ResolveParticipant(ctx context.Context, matchID, teamID, archerKey, archerName, school string, position int) (string, error) {
	key := participantKey(matchID, position)
	if id, ok, err := r.store.Get(key); err != nil {
		return "", fmt.Errorf("read identity cache: %w", err)
	} else if ok {
		return id, nil
	}

	id, err := r.gw.CreateParticipant(ctx, gateway.CreateParticipantRequest{
		MatchID:      matchID,
		TeamID:       teamID,
		ArcherKey:    archerKey,
		ArcherName:   archerName,
		School:       school,
		SeatPosition: position,
	})
	if err != nil {
		return "", fmt.Errorf("resolve participant identity: %w", err)
	}
	if err := r.store.Set(key, id); err != nil {
		return "", fmt.Errorf("cache participant identity: %w", err)
	}
	log.Info("Resolved new participant identity", "matchID", matchID, "seat", position, "participantID", id)
	return id, nil
}

// EvictMatch drops the cached match identifier and every team and
// participant entry scoped to it. Called by match reset; without this the
// next match on the same (kind, date, event) tuple would silently reuse
// the discarded identifiers.
func (r *Resolver) EvictMatch(kind match.Kind, dateKey, eventKey, matchID string) error {
	if err := r.store.Remove(matchKey(kind, dateKey, eventKey)); err != nil {
		return fmt.Errorf("evict match identity: %w", err)
	}
	format := match.FormatFor(kind)
	for teamNumber := 1; teamNumber <= 2; teamNumber++ {
		if err := r.store.Remove(teamKey(matchID, teamNumber)); err != nil {
			return fmt.Errorf("evict team identity: %w", err)
		}
	}
	for position := 1; position <= 2*format.ArchersPerSide; position++ {
		if err := r.store.Remove(participantKey(matchID, position)); err != nil {
			return fmt.Errorf("evict participant identity: %w", err)
		}
	}
	log.Info("Evicted match identities", "matchID", matchID)
	return nil
}
