package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the server configuration, read from DICEROOM_* environment variables
type Config struct {
	HTTPAddr string `env:"DICEROOM_HTTP_ADDR" envDefault:":8080"`

	Storage     string `env:"DICEROOM_STORAGE"      envDefault:"memory"`
	RedisURL    string `env:"DICEROOM_REDIS_URL"    envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"DICEROOM_REDIS_PREFIX" envDefault:"room"`

	RoomCapacity     int           `env:"DICEROOM_ROOM_CAPACITY"      envDefault:"8"`
	RoomTTL          time.Duration `env:"DICEROOM_ROOM_TTL"           envDefault:"5h"`
	CollisionRetries int           `env:"DICEROOM_COLLISION_RETRIES"  envDefault:"10"`
	HistoryPageLimit int           `env:"DICEROOM_HISTORY_PAGE_LIMIT" envDefault:"100"`

	LogLevel slog.Level `env:"DICEROOM_LOG_LEVEL" envDefault:"info"`

	// AllowedOrigins are Origin host patterns accepted by the websocket
	// gateway and CORS, e.g. "localhost:3000" or "*.example.com"
	AllowedOrigins []string `env:"DICEROOM_ALLOWED_ORIGINS" envSeparator:"," envDefault:"localhost,localhost:3000"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// FromMap parses configuration from vars instead of the process environment
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("invalid DICEROOM_STORAGE %q: must be %q or %q", c.Storage, StorageMemory, StorageRedis)
	}
	if c.Storage == StorageRedis && c.RedisURL == "" {
		return errors.New("DICEROOM_REDIS_URL is required when DICEROOM_STORAGE is redis")
	}
	if c.RoomCapacity < 1 {
		return fmt.Errorf("DICEROOM_ROOM_CAPACITY must be at least 1, got %d", c.RoomCapacity)
	}
	if c.RoomTTL <= 0 {
		return fmt.Errorf("DICEROOM_ROOM_TTL must be positive, got %s", c.RoomTTL)
	}
	if c.CollisionRetries < 1 {
		return fmt.Errorf("DICEROOM_COLLISION_RETRIES must be at least 1, got %d", c.CollisionRetries)
	}
	if c.HistoryPageLimit < 1 {
		return fmt.Errorf("DICEROOM_HISTORY_PAGE_LIMIT must be at least 1, got %d", c.HistoryPageLimit)
	}
	return nil
}
