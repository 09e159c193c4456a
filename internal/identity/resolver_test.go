package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/identity"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMatch_Memoizes(t *testing.T) {
	store := storage.NewMock()
	gw := gateway.NewMock()
	r := identity.New(store, gw)

	id1, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "regionals", false)
	require.NoError(t, err)
	id2, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "regionals", false)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "Same tuple must resolve to the same identifier")
	assert.Len(t, gw.CreateMatchCalls, 1, "Only one creation request should be issued")
}

func TestResolveMatch_ForceNewBypassesCache(t *testing.T) {
	store := storage.NewMock()
	gw := gateway.NewMock()
	r := identity.New(store, gw)

	id1, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "", false)
	require.NoError(t, err)
	id2, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "", true)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Len(t, gw.CreateMatchCalls, 2)
	assert.True(t, gw.CreateMatchCalls[1].ForceNew)

	// The forced match replaces the cached identifier.
	id3, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "", false)
	require.NoError(t, err)
	assert.Equal(t, id2, id3)
}

func TestResolveMatch_CreationFailurePropagates(t *testing.T) {
	store := storage.NewMock()
	gw := gateway.NewMock()
	gw.CreateMatchFunc = func(req gateway.CreateMatchRequest) (string, error) {
		return "", errors.New("server unreachable")
	}
	r := identity.New(store, gw)

	_, err := r.ResolveMatch(context.Background(), match.KindSolo, "2026-08-29", "", false)
	require.Error(t, err)
	assert.Empty(t, store.Keys(), "No identity should be cached on failure")
}

func TestResolveParticipant_NoDuplicatesAcrossReloads(t *testing.T) {
	store := storage.NewMock()
	gw := gateway.NewMock()
	r := identity.New(store, gw)

	id1, err := r.ResolveParticipant(context.Background(), "m1", "", "asta-holm/vestre", "Asta Holm", "Vestre", 1)
	require.NoError(t, err)

	// A reload constructs a fresh resolver over the same storage.
	r2 := identity.New(store, gw)
	id2, err := r2.ResolveParticipant(context.Background(), "m1", "", "asta-holm/vestre", "Asta Holm", "Vestre", 1)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, gw.CreateParticipantCalls, 1)
}

func TestEvictMatch(t *testing.T) {
	store := storage.NewMock()
	gw := gateway.NewMock()
	r := identity.New(store, gw)

	matchID, err := r.ResolveMatch(context.Background(), match.KindTeam, "2026-08-29", "finals", false)
	require.NoError(t, err)
	_, err = r.ResolveTeam(context.Background(), matchID, 1, "Vestre A")
	require.NoError(t, err)
	_, err = r.ResolveParticipant(context.Background(), matchID, "team-1", "k1", "Archer One", "", 1)
	require.NoError(t, err)

	require.NoError(t, r.EvictMatch(match.KindTeam, "2026-08-29", "finals", matchID))
	assert.Empty(t, store.Keys())

	// A subsequent resolve creates a fresh match.
	_, err = r.ResolveMatch(context.Background(), match.KindTeam, "2026-08-29", "finals", false)
	require.NoError(t, err)
	assert.Len(t, gw.CreateMatchCalls, 2)
}
