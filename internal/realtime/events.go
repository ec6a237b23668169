package realtime

import "github.com/sfines/sdd-process-example/internal/model"

// Client to server events
const (
	EventCreateRoom     = "create_room"
	EventJoinRoom       = "join_room"
	EventRollDice       = "roll_dice"
	EventGetRollHistory = "get_roll_history"
	EventHelloMessage   = "hello_message"
)

// Server to client events
const (
	EventConnected          = "connected"
	EventRoomCreated        = "room_created"
	EventRoomJoined         = "room_joined"
	EventPlayerJoined       = "player_joined"
	EventPlayerDisconnected = "player_disconnected"
	EventPlayerReconnected  = "player_reconnected"
	EventRollResult         = "roll_result"
	EventRollHistory        = "roll_history"
	EventWorldMessage       = "world_message"
	EventError              = "error"
)

// Message is the envelope for every event in either direction
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// CreateRoomData is the payload of create_room
type CreateRoomData struct {
	PlayerName string `json:"player_name"`
}

// JoinRoomData is the payload of join_room
type JoinRoomData struct {
	RoomCode   model.RoomCode `json:"room_code"`
	PlayerName string         `json:"player_name"`
}

// RollDiceData is the payload of roll_dice
type RollDiceData struct {
	RoomCode   model.RoomCode `json:"room_code"`
	PlayerName string         `json:"player_name"`
	Formula    string         `json:"formula"`
	DC         *int           `json:"dc,omitempty"`
}

// GetRollHistoryData is the payload of get_roll_history
type GetRollHistoryData struct {
	RoomCode model.RoomCode `json:"room_code"`
	Offset   int            `json:"offset"`
	Limit    int            `json:"limit"`
}

// HelloMessageData is the payload of hello_message
type HelloMessageData struct {
	Message string `json:"message"`
}

// RoomJoinedPayload is the room state sent to a joining player, tagged with
// their own player ID
type RoomJoinedPayload struct {
	*model.RoomState
	CurrentPlayerID model.PlayerID `json:"current_player_id"`
}

// PlayerJoinedPayload announces a new member to the rest of the room
type PlayerJoinedPayload struct {
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
}

// PlayerStatusPayload announces a connection change
type PlayerStatusPayload struct {
	PlayerID model.PlayerID `json:"player_id"`
}

// RollHistoryPayload is a page of a room's roll history
type RollHistoryPayload struct {
	RoomCode model.RoomCode     `json:"room_code"`
	Rolls    []model.RollRecord `json:"rolls"`
}

// WorldMessagePayload answers hello_message
type WorldMessagePayload struct {
	Message string `json:"message"`
}

// ErrorPayload carries a short user facing failure message
type ErrorPayload struct {
	Message string `json:"message"`
}

// UserMessage returns the message to show an end user for err. Internal
// failures are replaced by fallback.
func UserMessage(err error, fallback string) string {
	switch model.KindOf(err) {
	case model.KindValidation, model.KindNotFound, model.KindCapacityExceeded, model.KindFormula:
		return err.Error()
	default:
		return fallback
	}
}
