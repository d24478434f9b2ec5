package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tictactoe3d/agent"
	"tictactoe3d/config"
	"tictactoe3d/engine"
	"tictactoe3d/experiments"
	"tictactoe3d/searcher"
	"tictactoe3d/server"
)

func main() {
	mode := flag.String("mode", "play", "One of play, serve or experiment")
	configPath := flag.String("config", "", "Path to a YAML config file")
	difficulty := flag.String("difficulty", "", "Search difficulty: easy, medium or hard")
	workers := flag.Int("workers", 0, "Number of goroutines scoring root moves")
	seed := flag.Uint64("seed", 0, "Seed for move sampling, 0 for a random seed")
	timeout := flag.Duration("timeout", 0, "Time limit per automated move, 0 for none")
	listen := flag.String("listen", "", "Listen address in serve mode")
	games := flag.Int("games", 0, "Games per difficulty in experiment mode")
	out := flag.String("out", "", "Output directory in experiment mode")
	logLevel := flag.String("log-level", "", "Log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Flags override the config file only when given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "difficulty":
			cfg.Difficulty = *difficulty
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "timeout":
			cfg.Timeout = *timeout
		case "listen":
			cfg.Listen = *listen
		case "games":
			cfg.Experiment.Games = *games
		case "out":
			cfg.Experiment.OutputDir = *out
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(cfg.Level())

	// Interrupts keep their default behaviour in play mode so a blocked prompt can be left
	ctx := context.Background()
	if *mode != "play" {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	switch *mode {
	case "play":
		err = play(ctx, cfg)
	case "serve":
		err = serve(ctx, cfg)
	case "experiment":
		err = experiment(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("exiting")
	}
}

func play(ctx context.Context, cfg config.Config) error {
	e := engine.NewGame(cfg.GameDifficulty(), searcher.NewMinimax(cfg.MinimaxOptions()...))
	outcome, _, _, err := e.Run(ctx, agent.NewConsoleAgent(os.Stdin, os.Stdout))
	if agent.IsQuit(err) {
		fmt.Println("\nbye")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n%s\n", e.Board(), outcome)
	return nil
}

func serve(ctx context.Context, cfg config.Config) error {
	srv := server.New(cfg.GameDifficulty(), func() *searcher.Minimax {
		return searcher.NewMinimax(cfg.MinimaxOptions()...)
	})
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Routes(),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Str("addr", cfg.Listen).Msg("listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func experiment(ctx context.Context, cfg config.Config) error {
	dir, summaries, err := experiments.RunDifficultyExperiment(ctx, experiments.Options{
		OutputDir:    cfg.Experiment.OutputDir,
		NumGames:     cfg.Experiment.Games,
		Difficulties: cfg.ExperimentDifficulties(),
		Workers:      cfg.Workers,
		SampleSize:   cfg.SampleSize,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return err
	}
	for _, difficulty := range cfg.ExperimentDifficulties() {
		s := summaries[difficulty]
		fmt.Printf("%-6s wins %d, losses %d, draws %d\n", difficulty, s.Wins, s.Losses, s.Draws)
	}
	fmt.Printf("records written to %s\n", dir)
	return nil
}
