package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sfines/sdd-process-example/internal/model"
)

// Field names of a stored room
const (
	FieldRoomCode        = "room_code"
	FieldMode            = "mode"
	FieldCreatedAt       = "created_at"
	FieldCreatorPlayerID = "creator_player_id"
	FieldPlayers         = "players"
	FieldRollHistory     = "roll_history"
)

// EncodeRoom flattens room into store fields. Scalars are stored as-is, the
// player list and roll history as JSON arrays.
func EncodeRoom(room *model.RoomState) (map[string]string, error) {
	players := room.Players
	if players == nil {
		players = []model.Player{}
	}
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return nil, fmt.Errorf("encoding players: %w", err)
	}

	fields, err := EncodeRollHistory(room.RollHistory)
	if err != nil {
		return nil, err
	}
	fields[FieldRoomCode] = string(room.Code)
	fields[FieldMode] = room.Mode
	fields[FieldCreatedAt] = room.CreatedAt.UTC().Format(time.RFC3339Nano)
	fields[FieldCreatorPlayerID] = string(room.CreatorPlayerID)
	fields[FieldPlayers] = string(playersJSON)
	return fields, nil
}

// EncodeRollHistory encodes only the roll history field, for partial writes
func EncodeRollHistory(history []model.RollRecord) (map[string]string, error) {
	if history == nil {
		history = []model.RollRecord{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encoding roll history: %w", err)
	}
	return map[string]string{FieldRollHistory: string(data)}, nil
}

// DecodeRoom rebuilds a room from store fields. It returns nil without error
// when fields is empty or incomplete. A history append racing the room's
// expiry can leave a hash holding only roll_history; that remnant is not a
// room.
func DecodeRoom(fields map[string]string) (*model.RoomState, error) {
	if fields[FieldRoomCode] == "" || fields[FieldPlayers] == "" {
		return nil, nil
	}

	room := &model.RoomState{
		Code:            model.RoomCode(fields[FieldRoomCode]),
		Mode:            fields[FieldMode],
		CreatorPlayerID: model.PlayerID(fields[FieldCreatorPlayerID]),
		Players:         []model.Player{},
		RollHistory:     []model.RollRecord{},
	}

	if raw := fields[FieldCreatedAt]; raw != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding created_at: %w", err)
		}
		room.CreatedAt = createdAt.UTC()
	}
	if err := json.Unmarshal([]byte(fields[FieldPlayers]), &room.Players); err != nil {
		return nil, fmt.Errorf("decoding players: %w", err)
	}
	if len(room.Players) == 0 {
		return nil, nil
	}
	if raw := fields[FieldRollHistory]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &room.RollHistory); err != nil {
			return nil, fmt.Errorf("decoding roll history: %w", err)
		}
	}
	return room, nil
}
