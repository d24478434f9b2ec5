package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell addresses one position of the cube.
type Cell struct {
	Layer int `json:"layer"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.Layer, c.Row, c.Col)
}

// Valid reports whether every coordinate lies in [0, Size).
func (c Cell) Valid() bool {
	return inRange(c.Layer) && inRange(c.Row) && inRange(c.Col)
}

func (c Cell) index() int {
	return c.Layer*Size*Size + c.Row*Size + c.Col
}

func cellAt(index int) Cell {
	return Cell{Layer: index / (Size * Size), Row: (index / Size) % Size, Col: index % Size}
}

func inRange(v int) bool {
	return v >= 0 && v < Size
}

// ParseCell reads a cell written as "layer row col" or "layer,row,col".
func ParseCell(s string) (Cell, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 {
		return Cell{}, fmt.Errorf("%w: %q needs three coordinates", ErrInvalidCell, s)
	}
	coords := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: %q is not a number", ErrInvalidCell, f)
		}
		coords[i] = v
	}
	cell := Cell{Layer: coords[0], Row: coords[1], Col: coords[2]}
	if !cell.Valid() {
		return Cell{}, fmt.Errorf("cell %v: %w", cell, ErrOutOfRange)
	}
	return cell, nil
}

// Board is the 4x4x4 grid. The zero value is an empty board, and boards compare
// equal with == when every cell holds the same mark.
type Board struct {
	cells [NumCells]Mark
}

// NewBoard returns a board with every cell empty.
func NewBoard() *Board {
	return &Board{}
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// At returns the mark at the given cell.
func (b *Board) At(c Cell) (Mark, error) {
	if !c.Valid() {
		return Empty, fmt.Errorf("cell %v: %w", c, ErrOutOfRange)
	}
	return b.cells[c.index()], nil
}

// IsEmpty reports whether the given cell holds no mark.
func (b *Board) IsEmpty(c Cell) (bool, error) {
	m, err := b.At(c)
	if err != nil {
		return false, err
	}
	return m == Empty, nil
}

// EmptyCells lists the empty cells ordered by layer, then row, then column.
func (b *Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, NumCells)
	for i, m := range b.cells {
		if m == Empty {
			cells = append(cells, cellAt(i))
		}
	}
	return cells
}

// Place puts mark on an empty cell. Callers own the precondition: placing on an
// occupied or out of range cell is a bug and panics.
func (b *Board) Place(c Cell, mark Mark) {
	if !c.Valid() {
		panic(fmt.Sprintf("place %v: coordinate out of range", c))
	}
	if mark == Empty {
		panic(fmt.Sprintf("place %v: empty mark", c))
	}
	if b.cells[c.index()] != Empty {
		panic(fmt.Sprintf("place %v: cell already holds %v", c, b.cells[c.index()]))
	}
	b.cells[c.index()] = mark
}

// Clear empties a cell. It exists to undo speculative placements.
func (b *Board) Clear(c Cell) {
	if !c.Valid() {
		panic(fmt.Sprintf("clear %v: coordinate out of range", c))
	}
	b.cells[c.index()] = Empty
}

// IsFull reports whether no cell is empty.
func (b *Board) IsFull() bool {
	for _, m := range b.cells {
		if m == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells hold mark.
func (b *Board) Count(mark Mark) int {
	n := 0
	for _, m := range b.cells {
		if m == mark {
			n++
		}
	}
	return n
}

// String renders the four layers side by side, layer 0 on the left.
func (b *Board) String() string {
	var sb strings.Builder
	for layer := 0; layer < Size; layer++ {
		if layer > 0 {
			sb.WriteString("   ")
		}
		fmt.Fprintf(&sb, "layer %d", layer)
	}
	sb.WriteByte('\n')
	for row := 0; row < Size; row++ {
		for layer := 0; layer < Size; layer++ {
			if layer > 0 {
				sb.WriteString("   ")
			}
			for col := 0; col < Size; col++ {
				if col > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(b.cells[Cell{Layer: layer, Row: row, Col: col}.index()].String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Layout is the inverse of ParseBoard: one character per cell, '.' for empty.
func (b *Board) Layout() string {
	var sb strings.Builder
	sb.Grow(NumCells)
	for _, m := range b.cells {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// ParseBoard reads a board from NumCells characters in layer, row, column order.
// 'X' is MarkA, 'O' is MarkB and '.' or ' ' is empty. Whitespace other than ' ' is
// ignored so layouts may be split across lines.
func ParseBoard(s string) (*Board, error) {
	b := NewBoard()
	i := 0
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if i >= NumCells {
			return nil, fmt.Errorf("board layout has more than %d cells", NumCells)
		}
		switch r {
		case 'X', 'x':
			b.cells[i] = MarkA
		case 'O', 'o':
			b.cells[i] = MarkB
		case '.', ' ':
		default:
			return nil, fmt.Errorf("board layout: unexpected %q at cell %d", r, i)
		}
		i++
	}
	if i != NumCells {
		return nil, fmt.Errorf("board layout has %d cells, want %d", i, NumCells)
	}
	return b, nil
}
