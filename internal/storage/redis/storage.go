package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/storage"
)

// Storage is a Redis-backed room store. Each room is one hash; expiry uses
// the key TTL so every field disappears together.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.RoomStore = (*Storage)(nil)

func (s *Storage) Exists(ctx context.Context, code model.RoomCode) (bool, error) {
	n, err := s.client.Exists(ctx, s.roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ReadFields(ctx context.Context, code model.RoomCode) (map[string]string, error) {
	// HGETALL on a missing key is an empty map, not redis.Nil
	return s.client.HGetAll(ctx, s.roomKey(code)).Result()
}

func (s *Storage) WriteFields(ctx context.Context, code model.RoomCode, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	return s.client.HSet(ctx, s.roomKey(code), values).Err()
}

func (s *Storage) SetExpiry(ctx context.Context, code model.RoomCode, ttl time.Duration) error {
	return s.client.Expire(ctx, s.roomKey(code), ttl).Err()
}
