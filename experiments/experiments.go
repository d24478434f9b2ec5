package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tictactoe3d/agent"
	"tictactoe3d/engine"
	"tictactoe3d/experiments/metrics"
	"tictactoe3d/game"
	"tictactoe3d/meta"
	"tictactoe3d/searcher"
)

const DifficultyExperiment = "difficulty"

// Options configures a difficulty experiment.
type Options struct {
	OutputDir    string
	NumGames     int // Per difficulty
	Difficulties []game.Difficulty
	Workers      int
	SampleSize   int
	Seed         uint64 // Base seed, game i of every difficulty uses Seed+i
}

// Summary counts results from the automated player's point of view.
type Summary struct {
	Wins   int
	Losses int
	Draws  int
}

// RunDifficultyExperiment plays a random agent against the automated player at every
// difficulty and stores the records as CSV under OutputDir. It returns the directory
// the records were written to.
func RunDifficultyExperiment(ctx context.Context, opts Options) (string, map[game.Difficulty]Summary, error) {
	if opts.NumGames <= 0 {
		opts.NumGames = meta.EXPERIMENT_GAMES
	}
	if len(opts.Difficulties) == 0 {
		opts.Difficulties = game.Difficulties()
	}
	if opts.Workers <= 0 {
		opts.Workers = meta.WORKERS
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = meta.SAMPLE_SIZE
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	configs := make([]metrics.AgentConfig, 0, len(opts.Difficulties))
	for i, difficulty := range opts.Difficulties {
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Difficulty: difficulty,
			Workers:    opts.Workers,
			SampleSize: opts.SampleSize,
		})
	}
	return runExperiment(ctx, DifficultyExperiment, opts, configs)
}

func runExperiment(ctx context.Context, name string, opts Options, configs []metrics.AgentConfig) (string, map[game.Difficulty]Summary, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	summaries := make(map[game.Difficulty]Summary, len(configs))

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config)

		for i := 0; i < opts.NumGames; i++ {
			seed := opts.Seed + uint64(i)
			outcome, gameMetric, moveMetrics, err := runGame(ctx, config, seed)
			if err != nil {
				return "", nil, fmt.Errorf("config %d game %d: %w", config.ID, i+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				Seed:       seed,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			summaries[config.Difficulty] = tally(summaries[config.Difficulty], outcome)

			log.Info().Msgf("completed config %d of %d game %d of %d: %s", ci+1, len(configs), i+1, opts.NumGames, outcome)
		}

		s := summaries[config.Difficulty]
		log.Info().
			Stringer("difficulty", config.Difficulty).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Msg("completed config")
	}

	log.Info().Msgf("completed %s experiment", name)

	dir, err := store(opts.OutputDir, name, configs, gameRecords, moveRecords)
	if err != nil {
		return "", nil, err
	}
	return dir, summaries, nil
}

func store(root, name string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return "", fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// runGame plays one game of a seeded random agent against the automated player
func runGame(ctx context.Context, config metrics.AgentConfig, seed uint64) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	e := engine.NewGame(config.Difficulty, createMinimax(config, seed))
	return e.Run(ctx, agent.NewRandomAgent(seed))
}

func createMinimax(config metrics.AgentConfig, seed uint64) *searcher.Minimax {
	options := []searcher.Option{
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
	if config.Workers > 0 {
		options = append(options, searcher.WithWorkers(config.Workers))
	}
	if config.SampleSize > 0 {
		options = append(options, searcher.WithSampleSize(config.SampleSize))
	}
	return searcher.NewMinimax(options...)
}

func tally(s Summary, outcome game.Outcome) Summary {
	switch {
	case outcome.Status == game.Draw:
		s.Draws++
	case outcome.Winner == game.MarkB:
		s.Wins++
	default:
		s.Losses++
	}
	return s
}
