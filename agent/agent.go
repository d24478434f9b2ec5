package agent

import (
	"context"
	"errors"

	"tictactoe3d/game"
)

var ErrNoMove = errors.New("agent has no move")

type Agent interface {
	// NextMove returns the cell the human side wants to play on b. The board must not
	// be modified.
	NextMove(ctx context.Context, b *game.Board) (game.Cell, error)
}
