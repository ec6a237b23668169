package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/rooms/ALPHA-0001/capacity", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":3,"max":8}`))
	}))
	defer server.Close()

	var result Capacity
	err := NewClient(server.URL+"/").Get(context.Background(), roomPath("ALPHA-0001", "capacity"), &result)
	require.NoError(t, err)
	assert.Equal(t, Capacity{Current: 3, Max: 8}, result)
}

func TestClientSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		assert.JSONEq(t, `{"player_name":"Alice"}`, body.String())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"room_code":"ALPHA-0001"}`))
	}))
	defer server.Close()

	var room Room
	err := NewClient(server.URL).Post(context.Background(), "/api/v1/rooms", map[string]string{"player_name": "Alice"}, &room)
	require.NoError(t, err)
	assert.Equal(t, "ALPHA-0001", room.Code)
}

func TestClientReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"ROOM_FULL","message":"Room ALPHA-0001 is full"}}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Post(context.Background(), "/api/v1/rooms/ALPHA-0001/join", map[string]string{}, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "ROOM_FULL", apiErr.Code)
	assert.Equal(t, "Room ALPHA-0001 is full (ROOM_FULL)", err.Error())
}

func TestClientNonEnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL).Get(context.Background(), "/api/health", nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: bad gateway", err.Error())
}

func TestClientHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewClient("http://127.0.0.1:1").Get(ctx, "/api/health", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		"event: connected",
		`data: {"status":"connected"}`,
		"",
		": keepalive",
		"",
		"event: roll_result",
		`data: {"player_name":"Alice","formula":"1d20","total":17,"dc_pass":true}`,
		"",
	}, "\n")

	var events []SSEEvent
	require.NoError(t, readEvents(strings.NewReader(stream), func(evt SSEEvent) {
		events = append(events, evt)
	}))

	require.Len(t, events, 2)
	assert.Equal(t, "connected", events[0].Event)
	assert.Equal(t, "roll_result", events[1].Event)
	assert.Equal(t, "Alice rolled 1d20 = 17 (DC pass)", describeEvent(events[1]))
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		name  string
		event SSEEvent
		want  string
	}{
		{
			name:  "player joined",
			event: SSEEvent{Event: "player_joined", Data: []byte(`{"player_id":"p2","name":"Bob"}`)},
			want:  "Bob joined (p2)",
		},
		{
			name:  "player disconnected",
			event: SSEEvent{Event: "player_disconnected", Data: []byte(`{"player_id":"p2"}`)},
			want:  "p2 disconnected",
		},
		{
			name:  "player reconnected",
			event: SSEEvent{Event: "player_reconnected", Data: []byte(`{"player_id":"p2"}`)},
			want:  "p2 reconnected",
		},
		{
			name:  "roll without dc",
			event: SSEEvent{Event: "roll_result", Data: []byte(`{"player_name":"Bob","formula":"2d6+3","total":10}`)},
			want:  "Bob rolled 2d6+3 = 10",
		},
		{
			name:  "unknown event",
			event: SSEEvent{Event: "world_message", Data: []byte(`{"message":"hi"}`)},
			want:  `world_message: {"message":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeEvent(tt.event))
		})
	}
}
