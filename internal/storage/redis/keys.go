package redis

import (
	"fmt"

	"github.com/sfines/sdd-process-example/internal/model"
)

// roomKey returns the Redis key for a room's hash
func (s *Storage) roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, code)
}
