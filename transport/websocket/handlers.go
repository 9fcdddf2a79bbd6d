package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
	"github.com/rocketscienceinc/gameroom-backend/internal/repository"
)

// handleJoinGame seats the connection in the room, creating the room on first
// reference. A join that races the destruction of a dying session retries
// against a fresh one.
func (that *Server) handleJoinGame(_ context.Context, c *client, payload json.RawMessage) error {
	var request joinGamePayload
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	for {
		session := that.store.GetOrCreate(request.Room)

		snapshot, err := session.Join(c.id, request.Name, request.Avatar)
		if errors.Is(err, apperror.ErrRoomClosed) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to join room: %w", err)
		}

		that.hub.subscribe(request.Room, c)
		that.broadcastSnapshot(request.Room, snapshot)

		return nil
	}
}

func (that *Server) handleMakeMove(ctx context.Context, c *client, payload json.RawMessage) error {
	var request makeMovePayload
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, ok := that.store.Get(request.Room)
	if !ok {
		// the room vanished under the client; nothing to mutate
		return nil
	}

	snapshot, err := session.Move(c.id, request.Index)
	if err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.broadcastSnapshot(request.Room, snapshot)

	if snapshot.Status != entity.StatusPlaying {
		that.archiveMatch(ctx, request.Room, snapshot)
	}

	return nil
}

func (that *Server) handleResetGame(_ context.Context, c *client, payload json.RawMessage) error {
	var request resetGamePayload
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, ok := that.store.Get(request.Room)
	if !ok {
		return nil
	}

	snapshot, err := session.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	that.broadcastSnapshot(request.Room, snapshot)

	return nil
}

func (that *Server) handleLeaveGame(_ context.Context, c *client, payload json.RawMessage) error {
	var request leaveGamePayload
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, ok := that.store.Get(request.Room)
	if !ok {
		return nil
	}

	snapshot, empty, err := session.Leave(c.id)
	if err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}

	that.hub.unsubscribe(request.Room, c)

	if empty {
		that.store.RemoveIfEmpty(request.Room)
		return nil
	}

	that.broadcastSnapshot(request.Room, snapshot)

	return nil
}

// archiveMatch records a finished game, best effort. An archive failure never
// affects the room.
func (that *Server) archiveMatch(ctx context.Context, roomID string, snapshot *entity.Snapshot) {
	if that.archive == nil {
		return
	}

	record := &repository.MatchRecord{
		RoomID:     roomID,
		Winner:     snapshot.Winner,
		Board:      snapshot.Board,
		Players:    snapshot.Players,
		FinishedAt: time.Now().UTC(),
	}

	if err := that.archive.RecordMatch(ctx, record); err != nil {
		that.logger.Error("failed to archive match", "room", roomID, "error", err)
	}
}
