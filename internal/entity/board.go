package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
)

const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDraw    = "draw"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

// WinCombos lists all eight winning triples: rows first, then columns, then
// diagonals. Winner checks them in this order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board holds the nine cells of a game, each empty or holding one mark.
type Board [9]string

func NewBoard() Board {
	return Board{}
}

// Apply places mark on cell and returns the resulting board. The receiver is
// never modified; an occupied cell stays occupied forever.
func (that Board) Apply(cell int, mark string) (Board, error) {
	if cell < 0 || cell >= len(that) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

// Winner returns the mark completing a winning triple, or an empty string if
// no triple is complete.
func (that Board) Winner() string {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return ""
}

// IsFull reports whether no empty cells remain.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// ToggleMark returns the opposing mark.
func ToggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}
