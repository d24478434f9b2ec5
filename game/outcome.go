package game

import (
	"errors"
	"fmt"
)

var ErrGameOver = errors.New("game is over")

// Status is the coarse state of a game.
type Status int

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome describes whether a game continues, and if not how it ended. Winner and
// Line are only meaningful when Status is Win.
type Outcome struct {
	Status Status
	Winner Mark
	Line   Line
}

func (o Outcome) String() string {
	if o.Status == Win {
		return fmt.Sprintf("%s wins on %v", o.Winner, o.Line)
	}
	return o.Status.String()
}

// WinningLine returns the first catalog line fully owned by mark.
func WinningLine(b *Board, mark Mark) (Line, bool) {
	for i, l := range indexedLines {
		if b.cells[l[0]] == mark && b.cells[l[1]] == mark && b.cells[l[2]] == mark && b.cells[l[3]] == mark {
			return lines[i], true
		}
	}
	return Line{}, false
}

// IsDraw reports a full board on which neither side owns a line.
func IsDraw(b *Board) bool {
	if !b.IsFull() {
		return false
	}
	_, a := WinningLine(b, MarkA)
	_, o := WinningLine(b, MarkB)
	return !a && !o
}

// EvaluateOutcome is the outcome-only evaluation used by the search. A line owned by
// MarkB takes precedence over one owned by MarkA.
func EvaluateOutcome(b *Board) int {
	human := false
	for _, l := range indexedLines {
		m := b.cells[l[0]]
		if m == Empty || b.cells[l[1]] != m || b.cells[l[2]] != m || b.cells[l[3]] != m {
			continue
		}
		if m == MarkB {
			return WinScore
		}
		human = true
	}
	if human {
		return -WinScore
	}
	return 0
}

// QueryOutcome reports whether the game is still in progress, won or drawn. The
// human side is checked first; on a board reached by legal play at most one side can
// own a line.
func QueryOutcome(b *Board) Outcome {
	for _, mark := range []Mark{MarkA, MarkB} {
		if line, ok := WinningLine(b, mark); ok {
			return Outcome{Status: Win, Winner: mark, Line: line}
		}
	}
	if b.IsFull() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// ApplyHumanMove validates and applies a human move. Nothing is mutated on error.
func ApplyHumanMove(b *Board, c Cell) error {
	empty, err := b.IsEmpty(c)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("cell %v: %w", c, ErrCellOccupied)
	}
	b.Place(c, MarkA)
	return nil
}
