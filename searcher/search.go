package searcher

import (
	"context"
	"fmt"

	"tictactoe3d/experiments/metrics"
	"tictactoe3d/game"
)

type search struct {
	ctx      context.Context
	evaluate game.Evaluate
	metrics  metrics.Collector
	visited  int
}

// Search scores a position by depth-limited minimax with alpha-beta pruning. Scores
// are from MarkB's perspective and maximizing means MarkB is to move. The board is
// mutated speculatively and restored before Search returns.
func Search(b *game.Board, depth, alpha, beta int, maximizing bool) int {
	s := &search{
		ctx:      context.Background(),
		evaluate: game.EvaluateOutcome,
		metrics:  metrics.NewDummyCollector(),
	}
	score, err := s.minimax(b, depth, alpha, beta, maximizing)
	if err != nil {
		panic(fmt.Sprintf("uncancellable search failed: %v", err))
	}
	return score
}

func (s *search) minimax(b *game.Board, depth, alpha, beta int, maximizing bool) (int, error) {
	s.metrics.AddNode()
	if err := s.checkCancelled(); err != nil {
		return 0, err
	}

	score := s.evaluate(b)
	if score == game.WinScore || score == -game.WinScore || depth == 0 || b.IsFull() {
		return score, nil
	}

	mark, best := game.MarkA, Infinity
	if maximizing {
		mark, best = game.MarkB, NegInfinity
	}
	for _, cell := range b.EmptyCells() {
		score, err := s.child(b, cell, mark, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, score)
		} else {
			best = min(best, score)
			beta = min(beta, score)
		}
		if beta <= alpha {
			s.metrics.AddPrune()
			break
		}
	}
	return best, nil
}

// child scores the position after mark is played on cell. The placement is undone on
// every return path, including cancellation and panics further down.
func (s *search) child(b *game.Board, cell game.Cell, mark game.Mark, depth, alpha, beta int, maximizing bool) (int, error) {
	b.Place(cell, mark)
	defer b.Clear(cell)
	return s.minimax(b, depth, alpha, beta, maximizing)
}

// checkCancelled polls the context on the first node and every checkInterval nodes
// after that.
func (s *search) checkCancelled() error {
	s.visited++
	if s.visited%checkInterval != 1 {
		return nil
	}
	return s.ctx.Err()
}
