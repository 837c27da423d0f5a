package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/goroda-bot/internal"
)

func TestGetOrCreate(t *testing.T) {
	store := NewSessionStore()

	session, created := store.GetOrCreate("room1")
	require.True(t, created)
	assert.Equal(t, "room1", session.RoomId)
	assert.Equal(t, internal.PhaseJoining, session.Phase)
	assert.NotNil(t, session.Players)
	assert.NotNil(t, session.UsedCities)

	again, created := store.GetOrCreate("room1")
	assert.False(t, created)
	assert.Same(t, session, again)

	assert.Equal(t, 1, store.Count())
}

func TestGetMissingRoom(t *testing.T) {
	store := NewSessionStore()

	_, ok := store.Get("nowhere")
	assert.False(t, ok)
}

func TestRemoveIsIdentityChecked(t *testing.T) {
	store := NewSessionStore()

	first, _ := store.GetOrCreate("room1")
	require.True(t, store.Remove(first))
	assert.Equal(t, 0, store.Count())

	// A successor session at the same key must survive a stale remove.
	second, created := store.GetOrCreate("room1")
	require.True(t, created)
	require.NotSame(t, first, second)

	assert.False(t, store.Remove(first))
	assert.Equal(t, 1, store.Count())

	got, ok := store.Get("room1")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestLive(t *testing.T) {
	store := NewSessionStore()

	session, _ := store.GetOrCreate("room1")
	assert.True(t, store.Live(session))

	store.Remove(session)
	assert.False(t, store.Live(session))

	successor, _ := store.GetOrCreate("room1")
	assert.False(t, store.Live(session))
	assert.True(t, store.Live(successor))
}
