package storage

import (
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfines/sdd-process-example/internal/model"
)

func sampleRoom() *model.RoomState {
	created := time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)
	later := created.Add(time.Minute)
	pass := true
	return &model.RoomState{
		Code:            "ALPHA-1234",
		Mode:            model.RoomModeOpen,
		CreatedAt:       created,
		CreatorPlayerID: "p1",
		Players: []model.Player{
			{ID: "p1", Name: "Alice", Connected: true, ConnectedAt: &created},
			{ID: "p2", Name: "Bob", Connected: false, ConnectedAt: &created, LastActivity: &later},
			{ID: "p3", Name: "&lt;Eve&gt;", Connected: true},
		},
		RollHistory: []model.RollRecord{
			{ID: "r1", PlayerID: "p1", PlayerName: "Alice", Formula: "2d6+1", IndividualResults: []int{3, 4}, Modifier: 1, Total: 8, Timestamp: later},
			{ID: "r2", PlayerID: "p2", PlayerName: "Bob", Formula: "1d20", IndividualResults: []int{15}, Total: 15, Timestamp: later, DCPass: &pass},
			{ID: "r3", PlayerID: "p1", PlayerName: "Alice", Formula: "5", IndividualResults: []int{}, Modifier: 5, Total: 5, Timestamp: later},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	room := sampleRoom()

	fields, err := EncodeRoom(room)
	require.NoError(t, err)

	decoded, err := DecodeRoom(fields)
	require.NoError(t, err)
	assert.Equal(t, room, decoded)
}

func TestEncodeRoomFieldLayout(t *testing.T) {
	fields, err := EncodeRoom(sampleRoom())
	require.NoError(t, err)

	assert.Len(t, fields, 6)
	assert.Equal(t, "ALPHA-1234", fields[FieldRoomCode])
	assert.Equal(t, "Open", fields[FieldMode])
	assert.Equal(t, "2025-03-14T15:09:26.535Z", fields[FieldCreatedAt])
	assert.Equal(t, "p1", fields[FieldCreatorPlayerID])
	assert.JSONEq(t, `[
		{"player_id":"p1","name":"Alice","connected":true,"connected_at":"2025-03-14T15:09:26.535Z","last_activity":null},
		{"player_id":"p2","name":"Bob","connected":false,"connected_at":"2025-03-14T15:09:26.535Z","last_activity":"2025-03-14T15:10:26.535Z"},
		{"player_id":"p3","name":"&lt;Eve&gt;","connected":true,"connected_at":null,"last_activity":null}
	]`, fields[FieldPlayers])
}

func TestEncodeEmptyCollections(t *testing.T) {
	fields, err := EncodeRoom(&model.RoomState{Code: "X-0001"})
	require.NoError(t, err)

	assert.Equal(t, "[]", fields[FieldPlayers])
	assert.Equal(t, "[]", fields[FieldRollHistory])
}

func TestDecodeEmptyFields(t *testing.T) {
	room, err := DecodeRoom(map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, room)

	room, err = DecodeRoom(nil)
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestDecodeCorruptField(t *testing.T) {
	_, err := DecodeRoom(map[string]string{FieldRoomCode: "X-0001", FieldPlayers: "{not json"})
	assert.Error(t, err)

	_, err = DecodeRoom(map[string]string{FieldRoomCode: "X-0001", FieldPlayers: `[{"player_id":"p1"}]`, FieldCreatedAt: "yesterday"})
	assert.Error(t, err)
}

func TestDecodeIncompleteRoomIsAbsent(t *testing.T) {
	full, err := EncodeRoom(sampleRoom())
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"history only", map[string]string{FieldRollHistory: full[FieldRollHistory]}},
		{"missing room code", without(full, FieldRoomCode)},
		{"missing players", without(full, FieldPlayers)},
		{"no players", with(full, FieldPlayers, "[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := DecodeRoom(tt.fields)
			require.NoError(t, err)
			assert.Nil(t, room)
		})
	}
}

func without(fields map[string]string, key string) map[string]string {
	out := maps.Clone(fields)
	delete(out, key)
	return out
}

func with(fields map[string]string, key, value string) map[string]string {
	out := maps.Clone(fields)
	out[key] = value
	return out
}
