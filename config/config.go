// Package config collects the game's settings from the environment, an
// optional .env file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/logging"
	"github.com/joho/godotenv"
)

const (
	FrontendTUI    = "tui"
	FrontendScreen = "screen"
	FrontendPlain  = "plain"
)

const envPrefix = "TERMSNAKE_"

type Config struct {
	Seed      int64
	FoodCount int
	MaxLength int
	Frontend  string

	LogFile   string
	LogLevel  string
	LogFormat string

	// SpectateAddr is the listen address for the spectator websocket
	// server. Empty disables it.
	SpectateAddr string
	// SpectateLinger keeps the spectator server up after the round ends so
	// watchers can read the final frame.
	SpectateLinger time.Duration
}

func Default() Config {
	return Config{
		FoodCount:      game.DefaultFoodCount,
		MaxLength:      game.DefaultMaxLength,
		Frontend:       FrontendTUI,
		LogFile:        "termsnake.log",
		LogLevel:       "info",
		LogFormat:      logging.FormatPretty,
		SpectateLinger: 2 * time.Second,
	}
}

// LoadDotEnv loads envFile into the process environment if it exists.
// Variables already set are left alone.
func LoadDotEnv(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// FromEnv overlays TERMSNAKE_* variables from lookup onto base.
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	c := base
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s=%q: %w", envPrefix, name, v, err))
				return
			}
			*dst = n
		}
	}

	if v, ok := lookup(envPrefix + "SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED=%q: %w", envPrefix, v, err))
		} else {
			c.Seed = n
		}
	}
	num("FOOD", &c.FoodCount)
	num("MAX_LENGTH", &c.MaxLength)
	str("FRONTEND", &c.Frontend)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("SPECTATE", &c.SpectateAddr)
	if v, ok := lookup(envPrefix + "SPECTATE_LINGER"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSPECTATE_LINGER=%q: %w", envPrefix, v, err))
		} else {
			c.SpectateLinger = d
		}
	}

	return c, errors.Join(errs...)
}

// RegisterFlags binds flags on fs whose defaults are the values in c.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for spawn and food placement (0 seeds from the clock)")
	fs.IntVar(&c.FoodCount, "food", c.FoodCount, "Number of food items placed at round start")
	fs.IntVar(&c.MaxLength, "max-length", c.MaxLength, "Maximum snake length; growing past it aborts the round")
	fs.StringVar(&c.Frontend, "frontend", c.Frontend, "Front end: tui (bubbletea), screen (tcell) or plain (stdout)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Log file path, or - for stderr")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: pretty, json, text")
	fs.StringVar(&c.SpectateAddr, "spectate", c.SpectateAddr, "Listen address for the spectator websocket (e.g. :8080); empty disables")
	fs.DurationVar(&c.SpectateLinger, "spectate-linger", c.SpectateLinger, "How long spectators keep the final frame before the server stops")
}

func (c Config) Validate() error {
	var errs []error
	if c.FoodCount < 0 || c.FoodCount > game.InteriorCells {
		errs = append(errs, fmt.Errorf("food must be in [0, %d], got %d", game.InteriorCells, c.FoodCount))
	}
	if c.MaxLength < 1 || c.MaxLength > game.InteriorCells {
		errs = append(errs, fmt.Errorf("max-length must be in [1, %d], got %d", game.InteriorCells, c.MaxLength))
	}
	switch c.Frontend {
	case FrontendTUI, FrontendScreen, FrontendPlain:
	default:
		errs = append(errs, fmt.Errorf("unknown frontend %q", c.Frontend))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.SpectateLinger < 0 {
		errs = append(errs, fmt.Errorf("spectate-linger must be >= 0, got %s", c.SpectateLinger))
	}
	return errors.Join(errs...)
}

// Load resolves the full configuration: .env file, then environment, then
// args parsed as flags.
func Load(envFile string, args []string) (Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return Config{}, err
	}
	c, err := FromEnv(Default(), os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("termsnake", flag.ContinueOnError)
	c.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
