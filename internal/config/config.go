package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr            string        `env:"DRAFT_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"DRAFT_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"DRAFT_LOG_FORMAT" envDefault:"json"`
	Store           string        `env:"DRAFT_STORE" envDefault:"memory"`
	DatabaseDSN     string        `env:"DRAFT_DATABASE_DSN"`
	BoardFile       string        `env:"DRAFT_BOARD_FILE"`
	SlotsPerRound   int           `env:"DRAFT_SLOTS_PER_ROUND"`
	OutboxSize      int           `env:"DRAFT_OUTBOX_SIZE" envDefault:"16"`
	AllowedOrigins  []string      `env:"DRAFT_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"DRAFT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over the files.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: DRAFT_DATABASE_DSN is required for store %q", ErrInvalidConfig, c.Store)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.SlotsPerRound < 0 {
		return fmt.Errorf("%w: DRAFT_SLOTS_PER_ROUND must not be negative", ErrInvalidConfig)
	}
	if c.OutboxSize <= 0 {
		return fmt.Errorf("%w: DRAFT_OUTBOX_SIZE must be positive", ErrInvalidConfig)
	}
	return nil
}

// SlotsPerRoundFor picks the per-round slot count for drafts started without
// one. A board's count wins; DRAFT_SLOTS_PER_ROUND may only repeat it. Zero
// means neither is set and the engine default applies.
func (c Config) SlotsPerRoundFor(boardSlots int) (int, error) {
	switch {
	case boardSlots <= 0:
		return c.SlotsPerRound, nil
	case c.SlotsPerRound > 0 && c.SlotsPerRound != boardSlots:
		return 0, fmt.Errorf("%w: DRAFT_SLOTS_PER_ROUND=%d but the board has %d slots per round",
			ErrInvalidConfig, c.SlotsPerRound, boardSlots)
	default:
		return boardSlots, nil
	}
}
