package response

import "github.com/sfines/sdd-process-example/internal/model"

// Room is the room state returned to a caller who just joined, tagged with
// their own player ID
type Room struct {
	*model.RoomState
	CurrentPlayerID model.PlayerID `json:"current_player_id,omitempty"`
}

// Capacity reports how many players a room holds and how many it can hold
type Capacity struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
