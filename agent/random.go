package agent

import (
	"context"

	"golang.org/x/exp/rand"

	"tictactoe3d/game"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays a uniformly random empty cell.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) NextMove(ctx context.Context, b *game.Board) (game.Cell, error) {
	if err := ctx.Err(); err != nil {
		return game.Cell{}, err
	}
	cells := b.EmptyCells()
	if len(cells) == 0 {
		return game.Cell{}, ErrNoMove
	}
	return cells[a.rng.Intn(len(cells))], nil
}
