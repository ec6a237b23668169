package model

import "time"

// RoomCode is a human-readable identifier in the form WORD-####
type RoomCode string

// RoomModeOpen is the only room mode currently supported
const RoomModeOpen = "Open"

// RoomState is the full persisted state of a room
type RoomState struct {
	Code            RoomCode     `json:"room_code"`
	Mode            string       `json:"mode"`
	CreatedAt       time.Time    `json:"created_at"`
	CreatorPlayerID PlayerID     `json:"creator_player_id"`
	Players         []Player     `json:"players"`      // join order
	RollHistory     []RollRecord `json:"roll_history"` // append-only, chronological
}

// GetPlayer returns the player with the given ID, or nil if not in the room
func (r *RoomState) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// DisconnectedPlayers returns players whose connection flag is cleared, in join order
func (r *RoomState) DisconnectedPlayers() []Player {
	disconnected := []Player{}
	for _, p := range r.Players {
		if !p.Connected {
			disconnected = append(disconnected, p)
		}
	}
	return disconnected
}
