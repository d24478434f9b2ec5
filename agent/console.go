package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tictactoe3d/game"
)

type consoleAgent struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsoleAgent returns an agent that shows the board on out and reads moves as
// "layer row col" lines from in. Malformed or occupied cells are re-prompted.
func NewConsoleAgent(in io.Reader, out io.Writer) Agent {
	return &consoleAgent{scanner: bufio.NewScanner(in), out: out}
}

func (a *consoleAgent) NextMove(ctx context.Context, b *game.Board) (game.Cell, error) {
	fmt.Fprintf(a.out, "\n%s", b)
	for {
		if err := ctx.Err(); err != nil {
			return game.Cell{}, err
		}
		fmt.Fprint(a.out, "your move (layer row col): ")
		if !a.scanner.Scan() {
			if err := a.scanner.Err(); err != nil {
				return game.Cell{}, fmt.Errorf("read move: %w", err)
			}
			return game.Cell{}, io.EOF
		}
		line := strings.TrimSpace(a.scanner.Text())
		if line == "" {
			continue
		}
		cell, err := game.ParseCell(line)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			continue
		}
		// The engine validates again; checking here saves a round trip
		if empty, _ := b.IsEmpty(cell); !empty {
			fmt.Fprintf(a.out, "cell %v: %v\n", cell, game.ErrCellOccupied)
			continue
		}
		return cell, nil
	}
}

// IsQuit reports whether err means the console was closed.
func IsQuit(err error) bool {
	return errors.Is(err, io.EOF)
}
