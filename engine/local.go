package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tictactoe3d/agent"
	"tictactoe3d/experiments/metrics"
	"tictactoe3d/game"
	"tictactoe3d/searcher"
)

// Engine is one game between a human (MarkA, moving first) and the automated player
// (MarkB). It exclusively owns its board and is not safe for concurrent use.
type Engine struct {
	board      *game.Board
	difficulty game.Difficulty
	minimax    *searcher.Minimax
	history    []Move
}

// NewGame starts a game on an empty board. A nil minimax gets the default searcher.
func NewGame(difficulty game.Difficulty, minimax *searcher.Minimax) *Engine {
	if minimax == nil {
		minimax = searcher.NewMinimax()
	}
	return &Engine{
		board:      game.NewBoard(),
		difficulty: game.DifficultyFromDepth(difficulty.Depth()),
		minimax:    minimax,
	}
}

// Board returns a copy of the current board.
func (e *Engine) Board() *game.Board {
	return e.board.Copy()
}

func (e *Engine) Difficulty() game.Difficulty {
	return e.difficulty
}

// History returns the moves played so far, oldest first.
func (e *Engine) History() []Move {
	history := make([]Move, len(e.history))
	copy(history, e.history)
	return history
}

func (e *Engine) Outcome() game.Outcome {
	return game.QueryOutcome(e.board)
}

// HumanToMove reports whether the next move belongs to the human.
func (e *Engine) HumanToMove() bool {
	return e.board.Count(game.MarkA) == e.board.Count(game.MarkB)
}

// ApplyHumanMove plays MarkA on cell. It fails with game.ErrOutOfRange or
// game.ErrCellOccupied without touching the board, with game.ErrGameOver once the
// game has ended and with ErrNotHumanTurn while the automated reply is pending.
func (e *Engine) ApplyHumanMove(cell game.Cell) error {
	if e.Outcome().Status != game.InProgress {
		return game.ErrGameOver
	}
	if !e.HumanToMove() {
		return ErrNotHumanTurn
	}
	if err := game.ApplyHumanMove(e.board, cell); err != nil {
		return err
	}
	e.history = append(e.history, Move{Mark: game.MarkA, Cell: cell})
	return nil
}

// ChooseMove searches for and plays the automated player's move.
func (e *Engine) ChooseMove(ctx context.Context) (game.Cell, metrics.SearchMetric, error) {
	if e.Outcome().Status != game.InProgress {
		return game.Cell{}, metrics.SearchMetric{}, game.ErrGameOver
	}
	cell, metric, err := e.minimax.ChooseMove(ctx, e.board, e.difficulty.Depth())
	if err != nil {
		return game.Cell{}, metrics.SearchMetric{}, err
	}
	e.history = append(e.history, Move{Mark: game.MarkB, Cell: cell})
	return cell, metric, nil
}

// Run alternates human and automated moves until the game ends.
func (e *Engine) Run(ctx context.Context, human agent.Agent) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		Difficulty: e.difficulty,
		StartTime:  time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Stringer("difficulty", e.difficulty).Msg("game started")

	rejections := 0
	for e.Outcome().Status == game.InProgress {
		step := len(e.history) + 1
		if e.HumanToMove() {
			cell, err := human.NextMove(ctx, e.Board())
			if err != nil {
				return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("human move %d: %w", step, err)
			}
			if err := e.ApplyHumanMove(cell); err != nil {
				if !errors.Is(err, game.ErrCellOccupied) && !errors.Is(err, game.ErrOutOfRange) {
					return game.Outcome{}, gameMetric, moveMetrics, err
				}
				rejections++
				log.Warn().Err(err).Int("step", step).Msg("rejected human move")
				if rejections >= maxRejections {
					return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("human move %d: %w", step, ErrTooManyRejections)
				}
				continue
			}
			rejections = 0
			moveMetrics = append(moveMetrics, metrics.MoveMetric{Step: step, Mark: game.MarkA, Cell: cell})
			log.Debug().Int("step", step).Stringer("cell", cell).Msg("human moved")
			continue
		}

		cell, metric, err := e.ChooseMove(ctx)
		if err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("automated move %d: %w", step, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{Step: step, Mark: game.MarkB, Cell: cell, SearchMetric: metric})
		log.Debug().Int("step", step).Stringer("cell", cell).Int("score", metric.Score).Msg("automated player moved")
	}

	outcome := e.Outcome()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(e.history)
	gameMetric.Status = outcome.Status
	gameMetric.Winner = outcome.Winner

	log.Info().
		Stringer("result", outcome).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game over")
	return outcome, gameMetric, moveMetrics, nil
}
