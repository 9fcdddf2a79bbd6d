package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchArchive_RecordMatch(t *testing.T) {
	ctx, st := suite.New(t)

	archive := NewMatchArchive(st.Storage)

	// Given: a finished match
	record := &MatchRecord{
		RoomID: "r1",
		Winner: entity.PlayerX,
		Board: entity.Board{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, "", "", "", "",
		},
		Players: []entity.Player{
			{ID: "conn-alice", Name: "Alice", Mark: entity.PlayerX},
			{ID: "conn-bob", Name: "Bob", Mark: entity.PlayerO},
		},
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	// When: the match is recorded
	err := archive.RecordMatch(ctx, record)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestMatchArchive_ListByRoom(t *testing.T) {
	t.Run("returns records newest first", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewMatchArchive(st.Storage)

		// Given: two matches recorded in the same room
		first := &MatchRecord{RoomID: "r1", Winner: entity.PlayerX, FinishedAt: time.Now().UTC().Truncate(time.Second)}
		second := &MatchRecord{RoomID: "r1", FinishedAt: time.Now().UTC().Truncate(time.Second)}

		require.NoError(t, archive.RecordMatch(ctx, first))
		require.NoError(t, archive.RecordMatch(ctx, second))

		// When: the room's history is listed
		records, err := archive.ListByRoom(ctx, "r1", 10)

		// Then: both records come back, most recent first
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Empty(t, records[0].Winner)
		assert.Equal(t, entity.PlayerX, records[1].Winner)
	})

	t.Run("returns nothing for an unknown room", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewMatchArchive(st.Storage)

		// When: an unknown room is listed
		records, err := archive.ListByRoom(ctx, "missing", 10)

		// Then: the result is empty, not an error
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("respects the limit", func(t *testing.T) {
		ctx, st := suite.New(t)

		archive := NewMatchArchive(st.Storage)

		// Given: three recorded matches
		for i := 0; i < 3; i++ {
			require.NoError(t, archive.RecordMatch(ctx, &MatchRecord{RoomID: "r1"}))
		}

		// When: only the two most recent are requested
		records, err := archive.ListByRoom(ctx, "r1", 2)

		// Then: exactly two come back
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
