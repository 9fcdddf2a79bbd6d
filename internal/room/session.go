package room

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

const maxPlayers = 2

// Session is the authoritative state machine of a single room. Every command
// runs under the session mutex, so commands targeting one room are applied in
// a single total order while different rooms proceed in parallel.
type Session struct {
	mu sync.Mutex

	id      string
	board   entity.Board
	turn    string
	status  string
	winner  string
	players []*entity.Player
	closed  bool
}

func NewSession(id string) *Session {
	return &Session{
		id:     id,
		board:  entity.NewBoard(),
		turn:   entity.PlayerX,
		status: entity.StatusPlaying,
	}
}

func (that *Session) ID() string {
	return that.id
}

// Join seats a participant. The first joiner takes X, the second O. Joining a
// full room fails with ErrRoomFull; re-joining with the same connection
// identity is a no-op that still returns the current snapshot. Allowed in any
// status, never touches board or turn.
func (that *Session) Join(connID, name, avatar string) (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil, apperror.ErrRoomClosed
	}

	if that.findPlayer(connID) != nil {
		return that.snapshot(), nil
	}

	if len(that.players) >= maxPlayers {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.id)
	}

	// The second joiner takes whichever seat is free, so a seat is never
	// held twice even when X forfeited and O stayed behind.
	mark := entity.PlayerX
	if len(that.players) == 1 {
		mark = entity.ToggleMark(that.players[0].Mark)
	}

	that.players = append(that.players, &entity.Player{
		ID:     connID,
		Name:   name,
		Avatar: avatar,
		Mark:   mark,
	})

	return that.snapshot(), nil
}

// Move places the requester's mark on cell. The server re-validates
// everything regardless of what the client claims: the game must be in
// progress, the requester must be seated, it must be their turn, and the cell
// must be free.
func (that *Session) Move(connID string, cell int) (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != entity.StatusPlaying {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrGameNotPlaying, that.id)
	}

	player := that.findPlayer(connID)
	if player == nil {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrNotParticipant, that.id)
	}

	if player.Mark != that.turn {
		return nil, apperror.ErrNotYourTurn
	}

	board, err := that.board.Apply(cell, player.Mark)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	that.board = board

	switch {
	case that.board.Winner() != "":
		that.status = entity.StatusWon
		that.winner = player.Mark
	case that.board.IsFull():
		that.status = entity.StatusDraw
	default:
		that.turn = entity.ToggleMark(that.turn)
	}

	return that.snapshot(), nil
}

// Reset starts a fresh game with the same participants. Only allowed once the
// game has ended, so a disruptive client cannot clear a game in progress.
func (that *Session) Reset() (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == entity.StatusPlaying {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrGameInProgress, that.id)
	}

	that.board = entity.NewBoard()
	that.turn = entity.PlayerX
	that.status = entity.StatusPlaying
	that.winner = ""

	return that.snapshot(), nil
}

// Leave removes the matching participant. With one participant left the game
// ends as a forfeit win for the remaining seat; with none left the session
// reports empty=true and returns no snapshot, since the store will destroy it
// and nobody remains to receive a broadcast.
func (that *Session) Leave(connID string) (snap *entity.Snapshot, empty bool, err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := -1
	for i, player := range that.players {
		if player.ID == connID {
			idx = i
			break
		}
	}

	if idx == -1 {
		return nil, false, fmt.Errorf("%w: room %s", apperror.ErrNotParticipant, that.id)
	}

	that.players = append(that.players[:idx], that.players[idx+1:]...)

	if len(that.players) == 0 {
		return nil, true, nil
	}

	that.status = entity.StatusWon
	that.winner = that.players[0].Mark

	return that.snapshot(), false, nil
}

// HasParticipant reports whether connID holds a seat in this room.
func (that *Session) HasParticipant(connID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.findPlayer(connID) != nil
}

// Snapshot returns a copy of the current state.
func (that *Session) Snapshot() *entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// closeIfEmpty marks the session closed when it has no participants, so a
// join racing with destruction is told to retry against a fresh session.
// Called by the store with the registry lock held.
func (that *Session) closeIfEmpty() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.players) > 0 {
		return false
	}

	that.closed = true

	return true
}

func (that *Session) findPlayer(connID string) *entity.Player {
	for _, player := range that.players {
		if player.ID == connID {
			return player
		}
	}

	return nil
}

func (that *Session) snapshot() *entity.Snapshot {
	players := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player)
	}

	return &entity.Snapshot{
		Board:   that.board,
		Turn:    that.turn,
		Status:  that.status,
		Winner:  that.winner,
		Players: players,
	}
}
