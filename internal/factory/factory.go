package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sfines/sdd-process-example/internal/dependencies/clock"
	"github.com/sfines/sdd-process-example/internal/dependencies/random"
	"github.com/sfines/sdd-process-example/internal/realtime"
	"github.com/sfines/sdd-process-example/internal/services/dice"
	"github.com/sfines/sdd-process-example/internal/services/roll"
	"github.com/sfines/sdd-process-example/internal/services/room"
	"github.com/sfines/sdd-process-example/internal/storage"
	"github.com/sfines/sdd-process-example/internal/storage/memory"
	redisstorage "github.com/sfines/sdd-process-example/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.RoomStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Evaluator   *dice.Evaluator
	RoomManager *room.Manager
	RollService *roll.Service

	// Realtime
	HubManager  *realtime.HubManager
	Broadcaster *realtime.Broadcaster
	Gateway     *realtime.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RoomConfig holds room limits (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// AllowedOrigins are the Origin host patterns the websocket gateway accepts
	AllowedOrigins []string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.RoomStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Use default room config if not provided
	roomCfg := cfg.RoomConfig
	if roomCfg == (room.Config{}) {
		roomCfg = room.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, roomCfg, cfg.AllowedOrigins, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.RoomStore,
	clk clock.Clock,
	rnd random.Random,
	roomCfg room.Config,
	allowedOrigins []string,
	logger *slog.Logger,
) *App {
	// Create services
	evaluator := dice.New(rnd)
	roomManager := room.NewManager(store, clk, rnd, roomCfg, logger)
	rollService := roll.New(roomManager, evaluator, clk, rnd, logger)

	// Create realtime fan-out
	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, logger)
	gateway := realtime.NewGateway(roomManager, rollService, hubManager, broadcaster, allowedOrigins, logger)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Evaluator:   evaluator,
		RoomManager: roomManager,
		RollService: rollService,
		HubManager:  hubManager,
		Broadcaster: broadcaster,
		Gateway:     gateway,
	}
}

// Close stops every room hub and releases the store's connections
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
