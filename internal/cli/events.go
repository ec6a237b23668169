package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream events from a room",
		Long: `Connect to the room's event stream and print events as they happen.

Events include:
  - connected: Stream established
  - player_joined: A player joined the room
  - player_disconnected: A player lost their connection
  - player_reconnected: A player came back
  - roll_result: Someone rolled dice

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent is one event read from the stream
type SSEEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(cmd *cobra.Command, roomCode string, jsonOutput bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	target := strings.TrimSuffix(cfg.ServerURL, "/") + roomPath(roomCode, "events")
	if cfg.PlayerID != "" {
		target += "?" + url.Values{"player_id": {cfg.PlayerID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The stream stays open until the room's hub closes or ctx is cancelled
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return &errResp.Error
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Fprintf(out, "Connected to room %s\n", roomCode)
	}

	err = readEvents(resp.Body, func(evt SSEEvent) {
		printEvent(out, evt, jsonOutput)
	})
	if err != nil && ctx.Err() == nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(out, "Disconnected")
	}
	return nil
}

// readEvents parses an event stream, calling fn for each complete event.
// Comment lines such as keepalives are ignored.
func readEvents(r io.Reader, fn func(SSEEvent)) error {
	scanner := bufio.NewScanner(r)
	var event string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if event != "" {
				evt := SSEEvent{Time: time.Now(), Event: event}
				if len(data) > 0 {
					evt.Data = json.RawMessage(strings.Join(data, "\n"))
				}
				fn(evt)
			}
			event = ""
			data = nil
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, evt SSEEvent, jsonOutput bool) {
	if jsonOutput {
		line, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(line))
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", evt.Time.Format(time.TimeOnly), describeEvent(evt))
}

// describeEvent renders an event as a one line summary. Unknown events
// fall back to their raw payload.
func describeEvent(evt SSEEvent) string {
	var player struct {
		PlayerID string `json:"player_id"`
		Name     string `json:"name"`
	}

	switch evt.Event {
	case "connected":
		return "connected"
	case "player_joined":
		if json.Unmarshal(evt.Data, &player) == nil {
			return fmt.Sprintf("%s joined (%s)", player.Name, player.PlayerID)
		}
	case "player_disconnected", "player_reconnected":
		if json.Unmarshal(evt.Data, &player) == nil {
			return fmt.Sprintf("%s %s", player.PlayerID, strings.TrimPrefix(evt.Event, "player_"))
		}
	case "roll_result":
		var roll RollRecord
		if json.Unmarshal(evt.Data, &roll) == nil {
			summary := fmt.Sprintf("%s rolled %s = %d", roll.PlayerName, roll.Formula, roll.Total)
			if roll.DCPass != nil {
				if *roll.DCPass {
					summary += " (DC pass)"
				} else {
					summary += " (DC fail)"
				}
			}
			return summary
		}
	}

	data := strings.ReplaceAll(string(evt.Data), "\n", " ")
	if len(data) > 100 {
		data = data[:100] + "..."
	}
	return fmt.Sprintf("%s: %s", evt.Event, data)
}
