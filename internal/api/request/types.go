package request

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id,omitempty"`
}

// UpdatePlayerStatusRequest is the request body for marking a player
// connected or disconnected
type UpdatePlayerStatusRequest struct {
	Connected *bool `json:"connected"`
}

// RollRequest is the request body for rolling dice in a room
type RollRequest struct {
	Formula    string `json:"formula"`
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id,omitempty"`
	DC         *int   `json:"dc,omitempty"`
}
