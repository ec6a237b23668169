package realtime

import (
	"log/slog"

	"github.com/sfines/sdd-process-example/internal/model"
)

// Broadcaster publishes room events to whoever is subscribed to the room
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "broadcaster")),
	}
}

// PlayerJoined tells the room about a new member. except is the joining
// player's own subscription, if any.
func (b *Broadcaster) PlayerJoined(code model.RoomCode, player model.Player, except *Client) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}
	hub.BroadcastExcept(Message{
		Event: EventPlayerJoined,
		Data:  PlayerJoinedPayload{PlayerID: player.ID, Name: player.Name},
	}, except)
}

// RollResult sends a roll to the entire room
func (b *Broadcaster) RollResult(code model.RoomCode, record *model.RollRecord) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		b.logger.Debug("roll with no subscribers", slog.String("room_code", string(code)))
		return
	}
	hub.Broadcast(Message{Event: EventRollResult, Data: record})
}

// PlayerStatus tells the room a player connected or disconnected
func (b *Broadcaster) PlayerStatus(code model.RoomCode, playerID model.PlayerID, connected bool) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}
	event := EventPlayerDisconnected
	if connected {
		event = EventPlayerReconnected
	}
	hub.Broadcast(Message{Event: event, Data: PlayerStatusPayload{PlayerID: playerID}})
}
