package game

// Line is a set of four cells that wins the game when one mark owns all of them.
type Line [Size]Cell

// NumLines is the number of winning lines on a 4x4x4 cube.
const NumLines = 76

// The catalog never changes after package initialisation. indexedLines mirrors it with
// flat cell indices for the hot path in WinningLine.
var (
	lines        = buildLines()
	indexedLines = indexLines(lines)
)

// Lines returns the catalog of winning lines. The slice is shared and must not be
// modified.
func Lines() []Line {
	return lines
}

func buildLines() []Line {
	catalog := make([]Line, 0, NumLines)
	add := func(cell func(i int) Cell) {
		var l Line
		for i := 0; i < Size; i++ {
			l[i] = cell(i)
		}
		catalog = append(catalog, l)
	}
	last := Size - 1

	// Rows, columns and both face diagonals of each layer
	for layer := 0; layer < Size; layer++ {
		for row := 0; row < Size; row++ {
			add(func(i int) Cell { return Cell{layer, row, i} })
		}
		for col := 0; col < Size; col++ {
			add(func(i int) Cell { return Cell{layer, i, col} })
		}
		add(func(i int) Cell { return Cell{layer, i, i} })
		add(func(i int) Cell { return Cell{layer, i, last - i} })
	}

	// Verticals through the layers
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			add(func(i int) Cell { return Cell{i, row, col} })
		}
	}

	// Diagonals with a fixed row, varying layer and column together
	for row := 0; row < Size; row++ {
		add(func(i int) Cell { return Cell{i, row, i} })
		add(func(i int) Cell { return Cell{i, row, last - i} })
	}

	// Diagonals with a fixed column, varying layer and row together
	for col := 0; col < Size; col++ {
		add(func(i int) Cell { return Cell{i, i, col} })
		add(func(i int) Cell { return Cell{i, last - i, col} })
	}

	// Space diagonals
	add(func(i int) Cell { return Cell{i, i, i} })
	add(func(i int) Cell { return Cell{i, i, last - i} })
	add(func(i int) Cell { return Cell{i, last - i, i} })
	add(func(i int) Cell { return Cell{last - i, i, i} })

	if len(catalog) != NumLines {
		panic("winning line catalog has the wrong size")
	}
	return catalog
}

func indexLines(catalog []Line) [][Size]int {
	indexed := make([][Size]int, len(catalog))
	for i, l := range catalog {
		for j, c := range l {
			indexed[i][j] = c.index()
		}
	}
	return indexed
}
