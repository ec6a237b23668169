package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/sfines/sdd-process-example/internal/dependencies/clock"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/storage"
)

// Storage is an in-memory implementation of the room store. Expiry is
// evaluated lazily against the injected clock.
type Storage struct {
	mu    sync.Mutex
	clock clock.Clock
	rooms map[model.RoomCode]*entry
}

type entry struct {
	fields    map[string]string
	expiresAt time.Time // zero means no expiry
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock: clk,
		rooms: make(map[model.RoomCode]*entry),
	}
}

// Ensure Storage implements the interface
var _ storage.RoomStore = (*Storage)(nil)

// live returns the entry for code, dropping it if it has expired. Caller holds mu.
func (s *Storage) live(code model.RoomCode) *entry {
	e, ok := s.rooms[code]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		delete(s.rooms, code)
		return nil
	}
	return e
}

func (s *Storage) Exists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(code) != nil, nil
}

func (s *Storage) ReadFields(ctx context.Context, code model.RoomCode) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(code)
	if e == nil {
		return map[string]string{}, nil
	}
	return maps.Clone(e.fields), nil
}

func (s *Storage) WriteFields(ctx context.Context, code model.RoomCode, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(code)
	if e == nil {
		e = &entry{fields: make(map[string]string, len(fields))}
		s.rooms[code] = e
	}
	maps.Copy(e.fields, fields)
	return nil
}

func (s *Storage) SetExpiry(ctx context.Context, code model.RoomCode, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(code)
	if e == nil {
		return nil
	}
	if ttl <= 0 {
		delete(s.rooms, code)
		return nil
	}
	e.expiresAt = s.clock.Now().Add(ttl)
	return nil
}

// Len returns the number of live rooms
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for code := range s.rooms {
		if s.live(code) != nil {
			n++
		}
	}
	return n
}
