package searcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tictactoe3d/game"
)

func TestNewMinimax(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := NewMinimax()

		require.Equal(t, 8, m.sampleSize)
		require.Equal(t, 2, m.sampleDepth)
		require.Equal(t, 1, m.workers)
		require.Zero(t, m.timeout)
		require.NotNil(t, m.rng)
	})

	t.Run("ignores invalid options", func(t *testing.T) {
		m := NewMinimax(WithSampleSize(0), WithWorkers(-3), WithTimeout(-time.Second), WithEvaluationFn(nil), WithRand(nil))

		require.Equal(t, 8, m.sampleSize)
		require.Equal(t, 1, m.workers)
		require.Zero(t, m.timeout)
		require.NotNil(t, m.evaluate)
		require.NotNil(t, m.rng)
	})
}

func TestMinimaxCandidates(t *testing.T) {
	t.Run("all empty cells in board order above the sampling depth", func(t *testing.T) {
		b := game.NewBoard()
		b.Place(game.Cell{}, game.MarkA)

		got, sampled := NewMinimax().Candidates(b, 3)

		require.False(t, sampled)
		require.Equal(t, b.EmptyCells(), got)
	})

	t.Run("samples at shallow depth", func(t *testing.T) {
		b := game.NewBoard()
		b.Place(game.Cell{}, game.MarkA)

		got, sampled := NewMinimax(WithSeed(5)).Candidates(b, 2)

		require.True(t, sampled)
		require.Len(t, got, 8)
		require.Subset(t, b.EmptyCells(), got)
	})

	t.Run("keeps every cell when few remain", func(t *testing.T) {
		b := mustParseBoard(t, winInOneLayout)

		got, sampled := NewMinimax(WithSeed(5)).Candidates(b, 1)

		require.False(t, sampled)
		require.Equal(t, b.EmptyCells(), got)
	})

	t.Run("sampling can be disabled", func(t *testing.T) {
		got, sampled := NewMinimax(WithSampleDepth(0)).Candidates(game.NewBoard(), 1)

		require.False(t, sampled)
		require.Len(t, got, game.NumCells)
	})
}

func TestMinimaxChooseMove(t *testing.T) {
	ctx := context.Background()

	t.Run("full board has no move", func(t *testing.T) {
		b := mustParseBoard(t, drawnLayout)
		before := *b

		_, _, err := NewMinimax().ChooseMove(ctx, b, 4)

		require.ErrorIs(t, err, ErrNoMoves)
		require.Equal(t, before, *b)
	})

	t.Run("shallow depth searches only the sampled cells", func(t *testing.T) {
		b := game.NewBoard()
		require.NoError(t, game.ApplyHumanMove(b, game.Cell{}))
		sampled, _ := NewMinimax(WithSeed(11)).Candidates(b, 2)

		cell, metric, err := NewMinimax(WithSeed(11), WithMetrics()).ChooseMove(ctx, b, 2)

		require.NoError(t, err)
		require.Equal(t, 8, metric.Candidates, "Only the sample should be searched")
		require.True(t, metric.Sampled)
		require.Contains(t, sampled, cell)
		m, _ := b.At(cell)
		require.Equal(t, game.MarkB, m, "Chosen move should be played")
		require.Len(t, b.EmptyCells(), 62)
	})

	t.Run("takes an immediate win at every depth", func(t *testing.T) {
		for depth := 1; depth <= 6; depth++ {
			b := mustParseBoard(t, winInOneLayout)

			cell, metric, err := NewMinimax(WithSeed(uint64(depth)), WithMetrics()).ChooseMove(ctx, b, depth)

			require.NoError(t, err)
			require.Equal(t, winningCell, cell, "Depth %d should take the win", depth)
			require.Equal(t, game.WinScore, metric.Score)
			outcome := game.QueryOutcome(b)
			require.Equal(t, game.Win, outcome.Status)
			require.Equal(t, game.MarkB, outcome.Winner)
		}
	})

	t.Run("blocks the human's open line", func(t *testing.T) {
		b := game.NewBoard()
		for i := 0; i < 3; i++ {
			b.Place(game.Cell{Layer: 1, Row: 0, Col: i}, game.MarkA)
		}
		b.Place(game.Cell{Layer: 2, Row: 2, Col: 2}, game.MarkB)
		b.Place(game.Cell{Layer: 3, Row: 3, Col: 3}, game.MarkB)

		cell, _, err := NewMinimax().ChooseMove(ctx, b, 3)

		require.NoError(t, err)
		require.Equal(t, game.Cell{Layer: 1, Row: 0, Col: 3}, cell)
	})

	t.Run("ties go to the first cell in board order", func(t *testing.T) {
		b := game.NewBoard()
		b.Place(game.Cell{}, game.MarkA)

		cell, metric, err := NewMinimax(WithMetrics()).ChooseMove(ctx, b, 3)

		require.NoError(t, err)
		require.Equal(t, 0, metric.Score, "Nobody can win within three plies")
		require.Equal(t, game.Cell{Layer: 0, Row: 0, Col: 1}, cell)
	})

	t.Run("deterministic above the sampling depth", func(t *testing.T) {
		for seed := uint64(1); seed <= 3; seed++ {
			first := randomBoard(seed, 9)
			second := first.Copy()

			cell1, _, err := NewMinimax(WithSeed(100)).ChooseMove(ctx, first, 3)
			require.NoError(t, err)
			cell2, _, err := NewMinimax(WithSeed(200)).ChooseMove(ctx, second, 3)
			require.NoError(t, err)

			require.Equal(t, cell1, cell2)
			require.Equal(t, *first, *second)
		}
	})

	t.Run("parallel workers agree with the sequential search", func(t *testing.T) {
		for seed := uint64(4); seed <= 6; seed++ {
			sequential := randomBoard(seed, 15)
			parallel := sequential.Copy()

			cell1, metric1, err := NewMinimax(WithMetrics()).ChooseMove(ctx, sequential, 3)
			require.NoError(t, err)
			cell2, metric2, err := NewMinimax(WithWorkers(4), WithMetrics()).ChooseMove(ctx, parallel, 3)
			require.NoError(t, err)

			require.Equal(t, cell1, cell2)
			require.Equal(t, metric1.Score, metric2.Score)
			require.Equal(t, metric1.Nodes, metric2.Nodes, "Full-window root searches visit the same tree")
			require.Equal(t, 4, metric2.Workers)
		}
	})

	t.Run("cancelled context leaves the board unchanged", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		for _, workers := range []int{1, 4} {
			b := randomBoard(7, 5)
			before := *b

			_, _, err := NewMinimax(WithWorkers(workers)).ChooseMove(cancelled, b, 4)

			require.ErrorIs(t, err, context.Canceled)
			require.Equal(t, before, *b)
		}
	})

	t.Run("timeout aborts a long search", func(t *testing.T) {
		b := game.NewBoard()
		before := *b

		_, _, err := NewMinimax(WithTimeout(time.Nanosecond)).ChooseMove(ctx, b, 6)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, before, *b)
	})

	t.Run("custom evaluation function", func(t *testing.T) {
		// Prefer the last cell; depth 1 compares evaluations directly
		prefersCorner := func(b *game.Board) int {
			if m, _ := b.At(game.Cell{Layer: 3, Row: 3, Col: 3}); m == game.MarkB {
				return 1
			}
			return 0
		}
		b := mustParseBoard(t, drawnLayout[:game.NumCells-1]+".")
		b.Clear(game.Cell{Layer: 0, Row: 0, Col: 0})

		cell, _, err := NewMinimax(WithEvaluationFn(prefersCorner)).ChooseMove(ctx, b, 1)

		require.NoError(t, err)
		require.Equal(t, game.Cell{Layer: 3, Row: 3, Col: 3}, cell)
	})
}
