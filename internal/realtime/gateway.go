package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/services/roll"
	"github.com/sfines/sdd-process-example/internal/services/room"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed for status updates after the peer is gone
	cleanupWait = 5 * time.Second

	// Reply greeting for hello_message
	worldMessage = "World from server!"
)

// Gateway serves the websocket event protocol. Each connection is one player
// whose ID is the connection's session ID.
type Gateway struct {
	rooms          *room.Manager
	rolls          *roll.Service
	hubs           *HubManager
	broadcaster    *Broadcaster
	originPatterns []string
	logger         *slog.Logger
}

// NewGateway creates a new websocket Gateway. originPatterns are host
// patterns accepted in the Origin header, as understood by websocket.Accept.
func NewGateway(
	rooms *room.Manager,
	rolls *roll.Service,
	hubs *HubManager,
	broadcaster *Broadcaster,
	originPatterns []string,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		rooms:          rooms,
		rolls:          rolls,
		hubs:           hubs,
		broadcaster:    broadcaster,
		originPatterns: originPatterns,
		logger:         logger.With(slog.String("component", "gateway")),
	}
}

// inbound is a client event before its data is decoded
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// session is the server side of one websocket connection
type session struct {
	gw       *Gateway
	conn     *websocket.Conn
	playerID model.PlayerID
	out      chan Message
	logger   *slog.Logger

	mu          sync.Mutex
	memberships map[model.RoomCode]*Client
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		g.logger.Warn("websocket accept failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close(websocket.StatusInternalError, "handler finished") }()

	playerID := model.PlayerID(uuid.NewString())
	s := &session{
		gw:          g,
		conn:        conn,
		playerID:    playerID,
		out:         make(chan Message, sendBufferSize),
		logger:      g.logger.With(slog.String("player_id", string(playerID))),
		memberships: make(map[model.RoomCode]*Client),
	}
	s.logger.Info("client connected", slog.String("remote_addr", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writePump(ctx)
	s.readPump(ctx)

	cancel()
	s.disconnect()
	_ = conn.Close(websocket.StatusNormalClosure, "")
	s.logger.Info("client disconnected")
}

func (s *session) readPump(ctx context.Context) {
	for {
		var in inbound
		if err := wsjson.Read(ctx, s.conn, &in); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				s.logger.Debug("websocket read ended", slog.String("error", err.Error()))
			}
			return
		}
		s.dispatch(ctx, in)
	}
}

func (s *session) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.out:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, s.conn, msg)
			cancel()
			if err != nil {
				s.logger.Warn("websocket write failed",
					slog.String("event", msg.Event),
					slog.String("error", err.Error()))
				_ = s.conn.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		}
	}
}

// send queues a message for this connection only
func (s *session) send(ctx context.Context, event string, data any) {
	select {
	case s.out <- Message{Event: event, Data: data}:
	case <-ctx.Done():
	}
}

func (s *session) sendError(ctx context.Context, message string) {
	s.send(ctx, EventError, ErrorPayload{Message: message})
}

// fail reports err to the client, hiding internal detail behind fallback
func (s *session) fail(ctx context.Context, event string, err error, fallback string) {
	msg := UserMessage(err, fallback)
	if msg == fallback {
		s.logger.Error("event failed",
			slog.String("event", event),
			slog.String("kind", model.KindOf(err).String()),
			slog.String("error", err.Error()))
	}
	s.sendError(ctx, msg)
}

func (s *session) dispatch(ctx context.Context, in inbound) {
	var err error
	switch in.Event {
	case EventCreateRoom:
		err = s.createRoom(ctx, in.Data)
	case EventJoinRoom:
		err = s.joinRoom(ctx, in.Data)
	case EventRollDice:
		err = s.rollDice(ctx, in.Data)
	case EventGetRollHistory:
		err = s.getRollHistory(ctx, in.Data)
	case EventHelloMessage:
		s.send(ctx, EventWorldMessage, WorldMessagePayload{Message: worldMessage})
	default:
		s.sendError(ctx, fmt.Sprintf("Unknown event: %s", in.Event))
	}
	if err != nil {
		s.logger.Debug("undecodable event data",
			slog.String("event", in.Event),
			slog.String("error", err.Error()))
		s.sendError(ctx, "Invalid message data")
	}
}

// decode unmarshals event data. Handlers only return decode errors; domain
// failures are reported to the client directly.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func (s *session) createRoom(ctx context.Context, raw json.RawMessage) error {
	var data CreateRoomData
	if err := decode(raw, &data); err != nil {
		return err
	}

	state, err := s.gw.rooms.CreateRoom(ctx, data.PlayerName, s.playerID)
	if err != nil {
		s.fail(ctx, EventCreateRoom, err, "Failed to create room")
		return nil
	}

	s.subscribe(ctx, state.Code)
	s.send(ctx, EventRoomCreated, state)
	return nil
}

func (s *session) joinRoom(ctx context.Context, raw json.RawMessage) error {
	var data JoinRoomData
	if err := decode(raw, &data); err != nil {
		return err
	}
	if data.RoomCode == "" {
		s.sendError(ctx, "room_code is required")
		return nil
	}

	state, err := s.gw.rooms.JoinRoom(ctx, data.RoomCode, data.PlayerName, s.playerID)
	if err != nil {
		s.fail(ctx, EventJoinRoom, err, "Failed to join room")
		return nil
	}

	client := s.subscribe(ctx, state.Code)
	s.send(ctx, EventRoomJoined, RoomJoinedPayload{RoomState: state, CurrentPlayerID: s.playerID})
	if player := state.GetPlayer(s.playerID); player != nil {
		s.gw.broadcaster.PlayerJoined(state.Code, *player, client)
	}
	return nil
}

func (s *session) rollDice(ctx context.Context, raw json.RawMessage) error {
	var data RollDiceData
	if err := decode(raw, &data); err != nil {
		return err
	}

	record, err := s.gw.rolls.Roll(ctx, roll.Request{
		RoomCode:   data.RoomCode,
		PlayerID:   s.playerID,
		PlayerName: data.PlayerName,
		Formula:    data.Formula,
		DC:         data.DC,
	})
	if err != nil {
		s.fail(ctx, EventRollDice, err, "Failed to roll dice")
		return nil
	}

	s.gw.broadcaster.RollResult(data.RoomCode, record)
	return nil
}

func (s *session) getRollHistory(ctx context.Context, raw json.RawMessage) error {
	var data GetRollHistoryData
	if err := decode(raw, &data); err != nil {
		return err
	}
	if data.RoomCode == "" {
		s.sendError(ctx, "room_code is required")
		return nil
	}

	rolls, err := s.gw.rooms.GetRollHistory(ctx, data.RoomCode, data.Offset, data.Limit)
	if err != nil {
		s.fail(ctx, EventGetRollHistory, err, "Failed to get roll history")
		return nil
	}
	s.send(ctx, EventRollHistory, RollHistoryPayload{RoomCode: data.RoomCode, Rolls: rolls})
	return nil
}

// subscribe registers this connection with the room's hub and forwards the
// hub's messages to the connection. Subscribing twice is a no-op.
func (s *session) subscribe(ctx context.Context, code model.RoomCode) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.memberships[code]; ok {
		return client
	}

	client := s.gw.hubs.Subscribe(code, s.playerID)
	s.memberships[code] = client

	go func() {
		for msg := range client.send {
			select {
			case s.out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return client
}

// disconnect leaves every joined room, marking the player disconnected
func (s *session) disconnect() {
	s.mu.Lock()
	memberships := s.memberships
	s.memberships = make(map[model.RoomCode]*Client)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cleanupWait)
	defer cancel()

	for code, client := range memberships {
		client.hub.Unregister(client)
		if err := s.gw.rooms.UpdatePlayerStatus(ctx, code, s.playerID, false); err != nil {
			s.logger.Error("failed to mark player disconnected",
				slog.String("room_code", string(code)),
				slog.String("error", err.Error()))
			continue
		}
		s.gw.broadcaster.PlayerStatus(code, s.playerID, false)
	}
}
