package room

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sfines/sdd-process-example/internal/dependencies/clock"
	"github.com/sfines/sdd-process-example/internal/dependencies/random"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/services/roomcode"
	"github.com/sfines/sdd-process-example/internal/services/validation"
	"github.com/sfines/sdd-process-example/internal/storage"
)

// Config holds room limits
type Config struct {
	// Capacity is the maximum number of players in a room
	Capacity int
	// TTL is the inactivity window after which a room expires
	TTL time.Duration
	// CollisionRetries bounds room code generation attempts
	CollisionRetries int
	// HistoryPageLimit is the roll history page size when none is requested
	HistoryPageLimit int
}

// DefaultConfig returns the standard room limits
func DefaultConfig() Config {
	return Config{
		Capacity:         8,
		TTL:              5 * time.Hour,
		CollisionRetries: 10,
		HistoryPageLimit: 100,
	}
}

// Manager owns the room lifecycle. It keeps no room state between calls;
// every operation re-reads the store. Read-modify-write operations on the
// same room code are serialized in process.
type Manager struct {
	store  storage.RoomStore
	clock  clock.Clock
	random random.Random
	cfg    Config
	locks  *keyLocks
	logger *slog.Logger
}

// NewManager creates a new room Manager
func NewManager(
	store storage.RoomStore,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		store:  store,
		clock:  clock,
		random: random,
		cfg:    cfg,
		locks:  newKeyLocks(),
		logger: logger,
	}
}

// Capacity returns the configured maximum room size
func (m *Manager) Capacity() int {
	return m.cfg.Capacity
}

// CreateRoom creates a room with the named player as its only member and creator.
// A new player ID is allocated when playerID is empty.
func (m *Manager) CreateRoom(ctx context.Context, playerName string, playerID model.PlayerID) (*model.RoomState, error) {
	name, err := m.checkName(playerName)
	if err != nil {
		m.logger.Warn("create room rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	if playerID == "" {
		playerID = newPlayerID()
	}

	for attempt := 1; attempt <= m.cfg.CollisionRetries; attempt++ {
		code := model.RoomCode(roomcode.Generate(m.random))

		room, err := m.createWithCode(ctx, code, name, playerID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			m.logger.Warn("room code collision",
				slog.String("room_code", string(code)),
				slog.Int("attempt", attempt),
			)
			continue
		}

		m.logger.Info("room created",
			slog.String("room_code", string(code)),
			slog.String("player_id", string(playerID)),
		)
		return room, nil
	}

	m.logger.Error("room code generation exhausted",
		slog.Int("attempts", m.cfg.CollisionRetries),
	)
	return nil, model.NewCodeGenerationExhaustedError(m.cfg.CollisionRetries)
}

// createWithCode claims code if it is free. It returns nil without error
// when the code is already taken.
func (m *Manager) createWithCode(ctx context.Context, code model.RoomCode, name string, playerID model.PlayerID) (*model.RoomState, error) {
	unlock := m.locks.Lock(code)
	defer unlock()

	exists, err := m.store.Exists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("checking room code %s: %w", code, err)
	}
	if exists {
		return nil, nil
	}

	now := m.clock.Now()
	room := &model.RoomState{
		Code:            code,
		Mode:            model.RoomModeOpen,
		CreatedAt:       now,
		CreatorPlayerID: playerID,
		Players: []model.Player{
			{ID: playerID, Name: name, Connected: true, ConnectedAt: &now},
		},
		RollHistory: []model.RollRecord{},
	}

	if err := m.saveRoom(ctx, code, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom returns the current room state. A missing or expired room is a
// NotFound error. The TTL is not refreshed.
func (m *Manager) GetRoom(ctx context.Context, code model.RoomCode) (*model.RoomState, error) {
	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, model.NewRoomNotFoundError(code)
	}
	return room, nil
}

// RoomExists reports whether a live room has the given code
func (m *Manager) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := m.store.Exists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("checking room %s: %w", code, err)
	}
	return exists, nil
}

// GetRoomCapacity returns the current player count and the room limit
func (m *Manager) GetRoomCapacity(ctx context.Context, code model.RoomCode) (current, limit int, err error) {
	room, err := m.GetRoom(ctx, code)
	if err != nil {
		return 0, 0, err
	}
	return len(room.Players), m.cfg.Capacity, nil
}

// JoinRoom appends the named player to the room. A new player ID is
// allocated when playerID is empty. Joining with the ID of a player already
// in the room marks them connected again instead of adding a duplicate.
func (m *Manager) JoinRoom(ctx context.Context, code model.RoomCode, playerName string, playerID model.PlayerID) (*model.RoomState, error) {
	name, err := m.checkName(playerName)
	if err != nil {
		m.logger.Warn("join room rejected",
			slog.String("room_code", string(code)),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	unlock := m.locks.Lock(code)
	defer unlock()

	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		m.logger.Warn("join room not found", slog.String("room_code", string(code)))
		return nil, model.NewRoomNotFoundError(code)
	}

	now := m.clock.Now()

	if playerID != "" {
		if existing := room.GetPlayer(playerID); existing != nil {
			existing.Connected = true
			existing.LastActivity = &now
			if err := m.saveRoom(ctx, code, room); err != nil {
				return nil, err
			}
			m.logger.Info("player rejoined room",
				slog.String("room_code", string(code)),
				slog.String("player_id", string(playerID)),
			)
			return room, nil
		}
	}

	if len(room.Players) >= m.cfg.Capacity {
		m.logger.Warn("join room capacity exceeded",
			slog.String("room_code", string(code)),
			slog.Int("current", len(room.Players)),
			slog.Int("max", m.cfg.Capacity),
		)
		return nil, model.NewRoomFullError(code, m.cfg.Capacity)
	}

	if playerID == "" {
		playerID = newPlayerID()
	}
	room.Players = append(room.Players, model.Player{
		ID:          playerID,
		Name:        name,
		Connected:   true,
		ConnectedAt: &now,
	})

	if err := m.saveRoom(ctx, code, room); err != nil {
		return nil, err
	}

	m.logger.Info("player joined room",
		slog.String("room_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", len(room.Players)),
	)
	return room, nil
}

// UpdatePlayerStatus sets a player's connection flag and stamps their last
// activity. A missing room or player is logged and ignored.
func (m *Manager) UpdatePlayerStatus(ctx context.Context, code model.RoomCode, playerID model.PlayerID, connected bool) error {
	unlock := m.locks.Lock(code)
	defer unlock()

	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if room == nil {
		m.logger.Warn("update player status room not found",
			slog.String("room_code", string(code)),
			slog.String("player_id", string(playerID)),
		)
		return nil
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		m.logger.Warn("update player status player not found",
			slog.String("room_code", string(code)),
			slog.String("player_id", string(playerID)),
		)
		return nil
	}

	now := m.clock.Now()
	player.Connected = connected
	player.LastActivity = &now

	if err := m.saveRoom(ctx, code, room); err != nil {
		return err
	}

	m.logger.Info("player status updated",
		slog.String("room_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Bool("connected", connected),
	)
	return nil
}

// GetDisconnectedPlayers lists players currently marked disconnected, in
// join order. A missing room yields an empty list.
func (m *Manager) GetDisconnectedPlayers(ctx context.Context, code model.RoomCode) ([]model.Player, error) {
	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return []model.Player{}, nil
	}
	return room.DisconnectedPlayers(), nil
}

// AddRollToHistory appends roll to the room's history. Only the history
// field is rewritten. A missing room is logged and ignored.
func (m *Manager) AddRollToHistory(ctx context.Context, code model.RoomCode, roll model.RollRecord) error {
	unlock := m.locks.Lock(code)
	defer unlock()

	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if room == nil {
		m.logger.Warn("add roll room not found",
			slog.String("room_code", string(code)),
			slog.String("roll_id", roll.ID),
		)
		return nil
	}

	room.RollHistory = append(room.RollHistory, roll)

	fields, err := storage.EncodeRollHistory(room.RollHistory)
	if err != nil {
		return err
	}
	if err := m.store.WriteFields(ctx, code, fields); err != nil {
		return fmt.Errorf("saving roll history for %s: %w", code, err)
	}
	if err := m.store.SetExpiry(ctx, code, m.cfg.TTL); err != nil {
		return fmt.Errorf("refreshing expiry for %s: %w", code, err)
	}

	m.logger.Info("roll added to history",
		slog.String("room_code", string(code)),
		slog.String("roll_id", roll.ID),
		slog.Int("history_size", len(room.RollHistory)),
	)
	return nil
}

// GetRollHistory returns rolls [offset, offset+limit) in chronological
// order, clamped to the stored history. A non-positive limit means the
// configured page size. A missing room yields an empty list.
func (m *Manager) GetRollHistory(ctx context.Context, code model.RoomCode, offset, limit int) ([]model.RollRecord, error) {
	room, err := m.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return []model.RollRecord{}, nil
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = m.cfg.HistoryPageLimit
	}
	history := room.RollHistory
	if offset >= len(history) {
		return []model.RollRecord{}, nil
	}
	if limit > len(history)-offset {
		limit = len(history) - offset
	}
	return history[offset : offset+limit], nil
}

// checkName validates the raw name and returns its sanitized form
func (m *Manager) checkName(raw string) (string, error) {
	if ok, reason := validation.ValidateName(raw); !ok {
		return "", model.NewValidationError(reason)
	}
	return validation.SanitizeName(raw), nil
}

// loadRoom reads and decodes a room. It returns nil without error when the
// room is missing.
func (m *Manager) loadRoom(ctx context.Context, code model.RoomCode) (*model.RoomState, error) {
	fields, err := m.store.ReadFields(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("reading room %s: %w", code, err)
	}
	room, err := storage.DecodeRoom(fields)
	if err != nil {
		return nil, fmt.Errorf("decoding room %s: %w", code, err)
	}
	return room, nil
}

// saveRoom writes every field of room under code and refreshes its expiry.
// Writes are keyed by the code the caller locked, never by decoded state.
func (m *Manager) saveRoom(ctx context.Context, code model.RoomCode, room *model.RoomState) error {
	fields, err := storage.EncodeRoom(room)
	if err != nil {
		return err
	}
	if err := m.store.WriteFields(ctx, code, fields); err != nil {
		return fmt.Errorf("saving room %s: %w", code, err)
	}
	if err := m.store.SetExpiry(ctx, code, m.cfg.TTL); err != nil {
		return fmt.Errorf("refreshing expiry for %s: %w", code, err)
	}
	return nil
}

func newPlayerID() model.PlayerID {
	return model.PlayerID(uuid.NewString())
}
