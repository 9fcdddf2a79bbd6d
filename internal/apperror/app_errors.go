package apperror

import "errors"

var (
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrGameNotPlaying = errors.New("game is not in progress")
	ErrGameInProgress = errors.New("game is still in progress")
	ErrRoomFull       = errors.New("room already has two players")
	ErrNotParticipant = errors.New("connection is not a participant of the room")
	ErrRoomClosed     = errors.New("room has been closed")
)
