package session_test

import (
	"testing"

	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/session"
	"github.com/nholm/arrowsync/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SaveLoadClear(t *testing.T) {
	store := storage.NewMock()
	mgr := session.NewManager(store)

	_, ok, err := mgr.Load()
	require.NoError(t, err)
	assert.False(t, ok, "A fresh store has no session")

	saved := &session.State{
		MatchID: "match-1",
		Kind:    match.KindSolo,
		DateKey: "2026-08-29",
		ParticipantIDs: map[int]string{
			1: "participant-1",
			2: "participant-2",
		},
		ArcherKeys:  map[int]string{1: "asta-holm", 2: "ida-beck"},
		ArcherNames: map[int]string{1: "Asta Holm", 2: "Ida Beck"},
	}
	require.NoError(t, mgr.Save(saved))

	loaded, ok, err := mgr.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, loaded)

	require.NoError(t, mgr.Clear())
	_, ok, err = mgr.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeatMapping(t *testing.T) {
	solo := match.SoloFormat()
	assert.Equal(t, match.SideA, session.SeatSide(solo, 1))
	assert.Equal(t, match.SideB, session.SeatSide(solo, 2))
	assert.Equal(t, match.SideNone, session.SeatSide(solo, 3))

	team := match.TeamFormat()
	assert.Equal(t, match.SideA, session.SeatSide(team, 3))
	assert.Equal(t, match.SideB, session.SeatSide(team, 4))
	assert.Equal(t, match.SideB, session.SeatSide(team, 6))
	assert.Equal(t, match.SideNone, session.SeatSide(team, 7))

	assert.Equal(t, 0, session.SeatIndex(team, 1))
	assert.Equal(t, 2, session.SeatIndex(team, 3))
	assert.Equal(t, 0, session.SeatIndex(team, 4))
	assert.Equal(t, 2, session.SeatIndex(team, 6))
}

func TestRebuild_SoloReplaysServerArrows(t *testing.T) {
	participants := []gateway.MatchParticipant{
		{
			ParticipantID: "participant-1",
			Position:      1,
			Name:          "Asta Holm",
			Sets: []gateway.SubmittedSet{
				{SetNumber: 1, Arrows: []string{"10", "9", "X"}},
				{SetNumber: 2, Arrows: []string{"9", "9", "8"}},
			},
		},
		{
			ParticipantID: "participant-2",
			Position:      2,
			Name:          "Ida Beck",
			Sets: []gateway.SubmittedSet{
				{SetNumber: 1, Arrows: []string{"8", "8", "9"}},
				{SetNumber: 2, Arrows: []string{"10", "9", "9"}},
			},
		},
	}

	st, err := session.Rebuild(match.KindSolo, participants)
	require.NoError(t, err)

	assert.Equal(t, match.StatusInProgress, st.Status)
	assert.Equal(t, 2, st.PointsA, "Set 1 won by A, set 2 by B")
	assert.Equal(t, 2, st.PointsB)
	assert.Equal(t, 29, st.SetResults[0].TotalA)
	assert.Equal(t, 28, st.SetResults[1].TotalB)
}

func TestRebuild_DecidedMatchComesBackDecided(t *testing.T) {
	sweep := []gateway.SubmittedSet{
		{SetNumber: 1, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 2, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 3, Arrows: []string{"10", "10", "10"}},
	}
	losing := []gateway.SubmittedSet{
		{SetNumber: 1, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 2, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 3, Arrows: []string{"8", "8", "8"}},
	}
	st, err := session.Rebuild(match.KindSolo, []gateway.MatchParticipant{
		{Position: 1, Sets: sweep},
		{Position: 2, Sets: losing},
	})
	require.NoError(t, err)
	assert.Equal(t, match.StatusDecided, st.Status)
	assert.Equal(t, match.SideA, st.Winner)
}

func TestRebuild_TeamArcherMajorSlots(t *testing.T) {
	// Each team participant submits two arrows; they must land in that
	// archer's pair of slots, not overwrite a teammate's.
	parts := []gateway.MatchParticipant{
		{Position: 1, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"10", "9"}}}},
		{Position: 2, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"8", "7"}}}},
		{Position: 3, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"X", "6"}}}},
		{Position: 4, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"9", "9"}}}},
		{Position: 5, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"9", "9"}}}},
		{Position: 6, Sets: []gateway.SubmittedSet{{SetNumber: 1, Arrows: []string{"9", "9"}}}},
	}
	st, err := session.Rebuild(match.KindTeam, parts)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "9", "8", "7", "X", "6"}, st.Sets[0].A)
	assert.Equal(t, 50, st.SetResults[0].TotalA)
	assert.Equal(t, 54, st.SetResults[0].TotalB)
	assert.Equal(t, 0, st.PointsA)
	assert.Equal(t, 2, st.PointsB)
}

func TestRebuild_ShootOffSet(t *testing.T) {
	// Alternating set wins leave five sets at 5-5, then A takes the shoot-off.
	a := []gateway.SubmittedSet{
		{SetNumber: 1, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 2, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 3, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 4, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 5, Arrows: []string{"9", "9", "9"}},
		{SetNumber: 6, Arrows: []string{"10"}},
	}
	b := []gateway.SubmittedSet{
		{SetNumber: 1, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 2, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 3, Arrows: []string{"8", "8", "8"}},
		{SetNumber: 4, Arrows: []string{"10", "10", "10"}},
		{SetNumber: 5, Arrows: []string{"9", "9", "9"}},
		{SetNumber: 6, Arrows: []string{"8"}},
	}
	st, err := session.Rebuild(match.KindSolo, []gateway.MatchParticipant{
		{Position: 1, Sets: a},
		{Position: 2, Sets: b},
	})
	require.NoError(t, err)
	assert.Equal(t, match.StatusDecided, st.Status)
	assert.Equal(t, match.SideA, st.Winner)
	assert.Equal(t, 10, st.ShootOffResult.TotalA)
}

func TestRebuild_RejectsBadSeat(t *testing.T) {
	_, err := session.Rebuild(match.KindSolo, []gateway.MatchParticipant{
		{Position: 5, Sets: nil},
	})
	assert.Error(t, err)
}
