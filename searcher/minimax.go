package searcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"tictactoe3d/experiments/metrics"
	"tictactoe3d/game"
	"tictactoe3d/meta"
	"tictactoe3d/utils"
)

type Option func(m *Minimax)

// Minimax picks moves for MarkB. A Minimax owns its random source and is not safe for
// concurrent use; give each game its own.
type Minimax struct {
	sampleSize  int
	sampleDepth int
	workers     int
	timeout     time.Duration
	evaluate    game.Evaluate
	rng         *rand.Rand
	withMetrics bool
}

func WithSampleSize(size int) Option {
	return func(m *Minimax) {
		if size > 0 {
			m.sampleSize = size
		}
	}
}

// WithSampleDepth sets the deepest search limit at which root moves are sampled.
func WithSampleDepth(depth int) Option {
	return func(m *Minimax) {
		if depth >= 0 {
			m.sampleDepth = depth
		}
	}
}

func WithWorkers(workers int) Option {
	return func(m *Minimax) {
		if workers > 0 {
			m.workers = workers
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(m *Minimax) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(m *Minimax) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithSeed seeds the sampling source. Zero keeps the random default.
func WithSeed(seed uint64) Option {
	return func(m *Minimax) {
		if seed != 0 {
			m.rng = rand.New(rand.NewSource(seed))
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.withMetrics = true
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		sampleSize:  meta.SAMPLE_SIZE,
		sampleDepth: meta.SAMPLE_DEPTH,
		workers:     meta.WORKERS,
		evaluate:    game.EvaluateOutcome,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}
	return m
}

// Candidates returns the root moves searched at the given depth limit: every empty
// cell in board order, or a random sample of them at shallow depths. The second
// result reports whether sampling dropped any cell.
func (m *Minimax) Candidates(b *game.Board, depth int) ([]game.Cell, bool) {
	cells := b.EmptyCells()
	if depth > m.sampleDepth || len(cells) <= m.sampleSize {
		return cells, false
	}
	return utils.Sample(m.rng, cells, m.sampleSize), true
}

// ChooseMove searches each candidate move to depth-1 further plies, plays the best
// one for MarkB on the board and returns it. Ties go to the earliest candidate. On
// error the board is left as it was.
func (m *Minimax) ChooseMove(ctx context.Context, b *game.Board, depth int) (game.Cell, metrics.SearchMetric, error) {
	if depth < 1 {
		depth = 1
	}
	candidates, sampled := m.Candidates(b, depth)
	if len(candidates) == 0 {
		return game.Cell{}, metrics.SearchMetric{}, ErrNoMoves
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	collector := m.newCollector()
	collector.Start(depth, m.workers)
	collector.AddCandidates(len(candidates), sampled)

	var scores []int
	var err error
	if m.workers > 1 && len(candidates) > 1 {
		scores, err = m.scoreParallel(ctx, b, candidates, depth, collector)
	} else {
		scores, err = m.scoreSequential(ctx, b, candidates, depth, collector)
	}
	if err != nil {
		return game.Cell{}, metrics.SearchMetric{}, fmt.Errorf("search at depth %d: %w", depth, err)
	}

	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	cell := candidates[best]
	b.Place(cell, game.MarkB)

	metric := collector.Complete(scores[best])
	log.Debug().
		Int("depth", depth).
		Int("candidates", len(candidates)).
		Bool("sampled", sampled).
		Int64("nodes", metric.Nodes).
		Int64("prunes", metric.Prunes).
		Int("score", scores[best]).
		Stringer("cell", cell).
		Msg("chose move")
	return cell, metric, nil
}

func (m *Minimax) newCollector() metrics.Collector {
	if m.withMetrics {
		return metrics.NewCollector()
	}
	return metrics.NewDummyCollector()
}

func (m *Minimax) newSearch(ctx context.Context, collector metrics.Collector) *search {
	return &search{ctx: ctx, evaluate: m.evaluate, metrics: collector}
}

// Each candidate is searched with the full window, so scores do not depend on the
// order or goroutine in which candidates are evaluated.
func (m *Minimax) scoreSequential(ctx context.Context, b *game.Board, candidates []game.Cell, depth int, collector metrics.Collector) ([]int, error) {
	s := m.newSearch(ctx, collector)
	scores := make([]int, len(candidates))
	for i, cell := range candidates {
		score, err := s.child(b, cell, game.MarkB, depth-1, NegInfinity, Infinity, false)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}

func (m *Minimax) scoreParallel(ctx context.Context, b *game.Board, candidates []game.Cell, depth int, collector metrics.Collector) ([]int, error) {
	scores := make([]int, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, cell := range candidates {
		board := b.Copy()
		g.Go(func() error {
			s := m.newSearch(ctx, collector)
			score, err := s.child(board, cell, game.MarkB, depth-1, NegInfinity, Infinity, false)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
