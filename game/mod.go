package game

import "errors"

// Size is the edge length of the cube; every axis runs over [0, Size).
const Size = 4

// NumCells is the number of cells on the board.
const NumCells = Size * Size * Size

// WinScore is the magnitude Evaluate assigns to a decided game.
const WinScore = 100

var (
	ErrOutOfRange   = errors.New("coordinate out of range")
	ErrCellOccupied = errors.New("cell is occupied")
	ErrInvalidCell  = errors.New("invalid cell")
)

// Mark is the state of a single cell.
type Mark int8

const (
	Empty Mark = iota
	MarkA      // Human
	MarkB      // Automated player
)

func (m Mark) String() string {
	switch m {
	case MarkA:
		return "X"
	case MarkB:
		return "O"
	default:
		return "."
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkA:
		return MarkB
	case MarkB:
		return MarkA
	default:
		return Empty
	}
}

// Evaluate scores a position from the automated player's perspective: +WinScore if
// MarkB owns a line, -WinScore if MarkA does and 0 otherwise. Non-terminal positions
// get no positional credit.
type Evaluate func(*Board) int
