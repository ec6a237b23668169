package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case Capacity:
		o.printCapacity(v)
	case PlayerList:
		o.printPlayers(v)
	case RollRecord:
		o.printRoll(v)
	case RollHistory:
		o.printHistory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID           string     `json:"player_id"`
	Name         string     `json:"name"`
	Connected    bool       `json:"connected"`
	ConnectedAt  *time.Time `json:"connected_at"`
	LastActivity *time.Time `json:"last_activity"`
}

// PlayerList is a list of players
type PlayerList []Player

// RollRecord response type
type RollRecord struct {
	ID                string    `json:"roll_id"`
	PlayerID          string    `json:"player_id"`
	PlayerName        string    `json:"player_name"`
	Formula           string    `json:"formula"`
	IndividualResults []int     `json:"individual_results"`
	Modifier          int       `json:"modifier"`
	Total             int       `json:"total"`
	Timestamp         time.Time `json:"timestamp"`
	DCPass            *bool     `json:"dc_pass"`
}

// RollHistory is a page of roll records, oldest first
type RollHistory []RollRecord

// Room response type
type Room struct {
	Code            string       `json:"room_code"`
	Mode            string       `json:"mode"`
	CreatedAt       time.Time    `json:"created_at"`
	CreatorPlayerID string       `json:"creator_player_id"`
	Players         []Player     `json:"players"`
	RollHistory     []RollRecord `json:"roll_history"`
	CurrentPlayerID string       `json:"current_player_id,omitempty"`
}

// Capacity response type
type Capacity struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// HealthResult response type
type HealthResult struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency_ns,omitempty"`
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.Code)
	fmt.Fprintf(o.w, "Mode: %s\n", r.Mode)
	fmt.Fprintf(o.w, "Created: %s\n", r.CreatedAt.Local().Format(time.DateTime))
	if r.CurrentPlayerID != "" {
		fmt.Fprintf(o.w, "You: %s\n", r.CurrentPlayerID)
	}
	fmt.Fprintf(o.w, "Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		o.printPlayerLine(p, p.ID == r.CreatorPlayerID)
	}
	if len(r.RollHistory) > 0 {
		fmt.Fprintf(o.w, "Rolls: %d\n", len(r.RollHistory))
	}
}

func (o *Output) printPlayerLine(p Player, creator bool) {
	var tags []string
	if creator {
		tags = append(tags, "creator")
	}
	if !p.Connected {
		tags = append(tags, "disconnected")
	}
	suffix := ""
	if len(tags) > 0 {
		suffix = " [" + strings.Join(tags, ", ") + "]"
	}
	fmt.Fprintf(o.w, "  - %s (%s)%s\n", p.Name, p.ID, suffix)
}

func (o *Output) printCapacity(c Capacity) {
	fmt.Fprintf(o.w, "Players: %d/%d\n", c.Current, c.Max)
}

func (o *Output) printPlayers(players PlayerList) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No disconnected players")
		return
	}
	for _, p := range players {
		o.printPlayerLine(p, false)
	}
}

func (o *Output) printRoll(r RollRecord) {
	fmt.Fprintf(o.w, "%s rolled %s = %d\n", r.PlayerName, r.Formula, r.Total)
	if len(r.IndividualResults) > 0 {
		dice := make([]string, len(r.IndividualResults))
		for i, d := range r.IndividualResults {
			dice[i] = fmt.Sprint(d)
		}
		fmt.Fprintf(o.w, "  Dice: [%s]", strings.Join(dice, ", "))
		if r.Modifier != 0 {
			fmt.Fprintf(o.w, " modifier %+d", r.Modifier)
		}
		fmt.Fprintln(o.w)
	}
	if r.DCPass != nil {
		result := "fail"
		if *r.DCPass {
			result = "pass"
		}
		fmt.Fprintf(o.w, "  DC: %s\n", result)
	}
}

func (o *Output) printHistory(h RollHistory) {
	if len(h) == 0 {
		fmt.Fprintln(o.w, "No rolls yet")
		return
	}
	for _, r := range h {
		fmt.Fprintf(o.w, "[%s] ", r.Timestamp.Local().Format(time.TimeOnly))
		o.printRoll(r)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Latency > 0 {
		fmt.Fprintf(o.w, "Latency: %s\n", h.Latency.Round(time.Millisecond))
	}
}
