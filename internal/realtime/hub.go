package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sfines/sdd-process-example/internal/model"
)

// outbound is a message queued for broadcast. except, when set, is skipped.
type outbound struct {
	msg    Message
	except *Client
}

// Hub fans room events out to every subscribed client of a single room.
// Membership changes happen under mu; the Run loop only delivers broadcasts.
type Hub struct {
	roomCode model.RoomCode
	clients  map[*Client]bool
	closed   bool
	mu       sync.RWMutex
	logger   *slog.Logger

	broadcast chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomCode model.RoomCode, logger *slog.Logger) *Hub {
	return &Hub{
		roomCode:  roomCode,
		clients:   make(map[*Client]bool),
		logger:    logger.With(slog.String("room_code", string(roomCode))),
		broadcast: make(chan outbound, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	for {
		select {
		case out := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				if client == out.except {
					continue
				}
				select {
				case client.send <- out.msg:
					sentCount++
				default:
					droppedCount++
					h.logger.Warn("message dropped, client buffer full",
						slog.String("player_id", string(client.playerID)),
						slog.String("event", out.msg.Event))
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.logger.Debug("hub stopped")
			return
		}
	}
}

// Register adds a client to the hub. It reports false, leaving the client
// untouched, once the hub is closed.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("player_id", string(client.playerID)),
		slog.Int("total_clients", clientCount))
	return true
}

// Unregister removes a client from the hub and closes its channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client unregistered",
		slog.String("player_id", string(client.playerID)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(msg Message) {
	h.BroadcastExcept(msg, nil)
}

// BroadcastExcept sends a message to all clients but one
func (h *Hub) BroadcastExcept(msg Message, except *Client) {
	select {
	case h.broadcast <- outbound{msg: msg, except: except}:
	default:
		h.logger.Warn("broadcast dropped, hub buffer full", slog.String("event", msg.Event))
	}
}

// Close shuts down the hub, closing every client's channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		clientCount := len(h.clients)
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		h.mu.Unlock()
		close(h.done)
		h.logger.Debug("hub closed", slog.Int("disconnected_clients", clientCount))
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all rooms
type HubManager struct {
	hubs   map[model.RoomCode]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomCode]*Hub),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomCode model.RoomCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomCode]; ok {
		return hub
	}

	hub := NewHub(roomCode, m.logger)
	m.hubs[roomCode] = hub
	go hub.Run()
	return hub
}

// Subscribe registers a new client for playerID with the room's hub. A hub
// closed between lookup and registration, as by CleanupEmptyHubs, is
// dropped and a fresh one is used.
func (m *HubManager) Subscribe(roomCode model.RoomCode, playerID model.PlayerID) *Client {
	for {
		hub := m.GetOrCreateHub(roomCode)
		client := NewClient(hub, playerID)
		if hub.Register(client) {
			return client
		}

		m.mu.Lock()
		if m.hubs[roomCode] == hub {
			delete(m.hubs, roomCode)
		}
		m.mu.Unlock()
	}
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomCode model.RoomCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomCode]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(roomCode model.RoomCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomCode]; ok {
		hub.Close()
		delete(m.hubs, roomCode)
		m.logger.Info("hub removed", slog.String("room_code", string(roomCode)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for code, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, code)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// Close shuts down every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, code)
	}
}
