package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

// MatchRecord is the append-only archive entry for a finished game. Live room
// state never touches redis; records are never read back to resume a room.
type MatchRecord struct {
	RoomID     string          `json:"room_id"`
	Winner     string          `json:"winner,omitempty"`
	Board      entity.Board    `json:"board"`
	Players    []entity.Player `json:"players"`
	FinishedAt time.Time       `json:"finished_at"`
}

type MatchArchive interface {
	RecordMatch(ctx context.Context, record *MatchRecord) error
	ListByRoom(ctx context.Context, roomID string, limit int64) ([]*MatchRecord, error)
}

type dbMatchArchive struct {
	client *redis.Client
}

func NewMatchArchive(client *redis.Client) MatchArchive {
	return &dbMatchArchive{
		client: client,
	}
}

// RecordMatch prepends the record to the room's match list, newest first.
func (that *dbMatchArchive) RecordMatch(ctx context.Context, record *MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal match record: %w", err)
	}

	matchKey := "matches:" + record.RoomID
	if err = that.client.LPush(ctx, matchKey, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to push match record: %w", err)
	}

	return nil
}

// ListByRoom returns up to limit most recent records for a room.
func (that *dbMatchArchive) ListByRoom(ctx context.Context, roomID string, limit int64) ([]*MatchRecord, error) {
	matchKey := "matches:" + roomID

	entries, err := that.client.LRange(ctx, matchKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read match records: %w", err)
	}

	records := make([]*MatchRecord, 0, len(entries))
	for _, entry := range entries {
		var record MatchRecord
		if err = json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}
