package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sfines/sdd-process-example/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second
)

// ServeSSE subscribes to a room's hub and streams its events to an HTTP
// client until the client disconnects or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hubs *HubManager, roomCode model.RoomCode, playerID model.PlayerID) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := hubs.Subscribe(roomCode, playerID)
	defer client.hub.Unregister(client)

	// Send initial connection event
	hello, _ := encodeSSE(Message{Event: EventConnected, Data: map[string]string{"status": "connected"}})
	_, _ = w.Write(hello)
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			data, err := encodeSSE(msg)
			if err != nil {
				continue
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// encodeSSE renders msg as an SSE frame with its data as JSON
func encodeSSE(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(msg.Event, string(data)), nil
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
