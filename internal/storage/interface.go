package storage

import (
	"context"
	"time"

	"github.com/sfines/sdd-process-example/internal/model"
)

// RoomStore is a keyed, field-structured store with expiry. All operations
// address a single room by its code. Implementations hold no business logic.
type RoomStore interface {
	// Exists reports whether any fields are stored for code
	Exists(ctx context.Context, code model.RoomCode) (bool, error)

	// ReadFields returns every stored field for code, or an empty map if the
	// room is missing or expired
	ReadFields(ctx context.Context, code model.RoomCode) (map[string]string, error)

	// WriteFields creates or replaces the given fields, leaving other fields as they are
	WriteFields(ctx context.Context, code model.RoomCode, fields map[string]string) error

	// SetExpiry (re)sets the time after which all fields for code disappear together
	SetExpiry(ctx context.Context, code model.RoomCode, ttl time.Duration) error
}
