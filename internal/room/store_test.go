package room

import (
	"testing"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreate(t *testing.T) {
	t.Run("creates a playing session on first reference", func(t *testing.T) {
		// Given: an empty store
		store := NewStore()

		// When: an unknown room is referenced
		session := store.GetOrCreate("r1")

		// Then: a fresh playing session exists
		require.NotNil(t, session)
		assert.Equal(t, "r1", session.ID())
		assert.Equal(t, entity.StatusPlaying, session.Snapshot().Status)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("returns the same session on repeated references", func(t *testing.T) {
		store := NewStore()

		first := store.GetOrCreate("r1")
		second := store.GetOrCreate("r1")

		assert.Same(t, first, second)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("different rooms get independent sessions", func(t *testing.T) {
		store := NewStore()

		first := store.GetOrCreate("r1")
		second := store.GetOrCreate("r2")

		assert.NotSame(t, first, second)
		assert.Equal(t, 2, store.Len())
	})
}

func TestStore_RemoveIfEmpty(t *testing.T) {
	t.Run("removes an empty session", func(t *testing.T) {
		// Given: a room whose last participant left
		store := NewStore()
		store.GetOrCreate("r1")

		// When: removal is requested
		removed := store.RemoveIfEmpty("r1")

		// Then: the room is gone
		assert.True(t, removed)
		assert.Equal(t, 0, store.Len())

		_, ok := store.Get("r1")
		assert.False(t, ok)
	})

	t.Run("keeps a session that still has participants", func(t *testing.T) {
		// Given: a room with one participant
		store := NewStore()
		session := store.GetOrCreate("r1")
		_, err := session.Join("conn-alice", "Alice", "")
		require.NoError(t, err)

		// When: removal is requested
		removed := store.RemoveIfEmpty("r1")

		// Then: the room survives
		assert.False(t, removed)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("a rejoin after destruction creates a brand-new session", func(t *testing.T) {
		// Given: a room destroyed after its last participant left
		store := NewStore()
		old := store.GetOrCreate("r1")
		_, err := old.Join("conn-alice", "Alice", "")
		require.NoError(t, err)

		_, empty, err := old.Leave("conn-alice")
		require.NoError(t, err)
		require.True(t, empty)
		require.True(t, store.RemoveIfEmpty("r1"))

		// When: the same room id is joined again
		fresh := store.GetOrCreate("r1")
		snapshot, err := fresh.Join("conn-alice", "Alice", "")

		// Then: it is a different, fresh session and the joiner takes seat X
		require.NoError(t, err)
		assert.NotSame(t, old, fresh)
		assert.Equal(t, entity.StatusPlaying, snapshot.Status)
		require.Len(t, snapshot.Players, 1)
		assert.Equal(t, entity.PlayerX, snapshot.Players[0].Mark)
	})
}

func TestStore_ForEachWithParticipant(t *testing.T) {
	// Given: three rooms, Alice seated in two of them
	store := NewStore()

	for _, roomID := range []string{"r1", "r2", "r3"} {
		session := store.GetOrCreate(roomID)
		if roomID != "r2" {
			_, err := session.Join("conn-alice", "Alice", "")
			require.NoError(t, err)
		}
	}

	// When: the store is asked for every room holding Alice's connection
	visited := make(map[string]bool)
	store.ForEachWithParticipant("conn-alice", func(session *Session) {
		visited[session.ID()] = true
	})

	// Then: exactly the rooms she joined are visited
	assert.Equal(t, map[string]bool{"r1": true, "r3": true}, visited)
}
