package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"tictactoe3d/game"
	"tictactoe3d/meta"
	"tictactoe3d/searcher"
)

// Config is the runtime configuration. Zero fields in a YAML file keep their defaults.
type Config struct {
	Difficulty  string        `yaml:"difficulty"`
	SampleSize  int           `yaml:"sample_size"`
	SampleDepth int           `yaml:"sample_depth"`
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	Seed        uint64        `yaml:"seed"`
	LogLevel    string        `yaml:"log_level"`
	Listen      string        `yaml:"listen"`
	Experiment  Experiment    `yaml:"experiment"`
}

type Experiment struct {
	Games        int      `yaml:"games"`
	OutputDir    string   `yaml:"output_dir"`
	Difficulties []string `yaml:"difficulties"`
}

func Default() Config {
	return Config{
		Difficulty:  game.Easy.String(),
		SampleSize:  meta.SAMPLE_SIZE,
		SampleDepth: meta.SAMPLE_DEPTH,
		Workers:     meta.WORKERS,
		LogLevel:    zerolog.InfoLevel.String(),
		Listen:      meta.LISTEN_ADDR,
		Experiment: Experiment{
			Games:     meta.EXPERIMENT_GAMES,
			OutputDir: "results",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive, got %d", c.SampleSize)
	}
	if c.SampleDepth < 0 {
		return fmt.Errorf("sample_depth must not be negative, got %d", c.SampleDepth)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Experiment.Games <= 0 {
		return fmt.Errorf("experiment.games must be positive, got %d", c.Experiment.Games)
	}
	return nil
}

// GameDifficulty parses Difficulty leniently.
func (c Config) GameDifficulty() game.Difficulty {
	return game.ParseDifficulty(c.Difficulty)
}

func (c Config) ExperimentDifficulties() []game.Difficulty {
	if len(c.Experiment.Difficulties) == 0 {
		return game.Difficulties()
	}
	difficulties := make([]game.Difficulty, 0, len(c.Experiment.Difficulties))
	for _, name := range c.Experiment.Difficulties {
		difficulties = append(difficulties, game.ParseDifficulty(name))
	}
	return difficulties
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// MinimaxOptions translates the search settings into searcher options.
func (c Config) MinimaxOptions() []searcher.Option {
	return []searcher.Option{
		searcher.WithSampleSize(c.SampleSize),
		searcher.WithSampleDepth(c.SampleDepth),
		searcher.WithWorkers(c.Workers),
		searcher.WithTimeout(c.Timeout),
		searcher.WithSeed(c.Seed),
	}
}
