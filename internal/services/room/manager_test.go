package room

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sfines/sdd-process-example/internal/dependencies/mocks"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/storage"
	"github.com/sfines/sdd-process-example/internal/storage/memory"
	"github.com/sfines/sdd-process-example/internal/testutil"
)

// recordingStore counts calls into the wrapped store and can force failures
type recordingStore struct {
	storage.RoomStore
	exists, reads, writes, expiries atomic.Int32
	alwaysExists                    bool
	fail                            error
	lastWrite                       map[string]string
	beforeWrite                     func()
	mu                              sync.Mutex
}

func (r *recordingStore) Exists(ctx context.Context, code model.RoomCode) (bool, error) {
	r.exists.Add(1)
	if r.fail != nil {
		return false, r.fail
	}
	if r.alwaysExists {
		return true, nil
	}
	return r.RoomStore.Exists(ctx, code)
}

func (r *recordingStore) ReadFields(ctx context.Context, code model.RoomCode) (map[string]string, error) {
	r.reads.Add(1)
	if r.fail != nil {
		return nil, r.fail
	}
	return r.RoomStore.ReadFields(ctx, code)
}

func (r *recordingStore) WriteFields(ctx context.Context, code model.RoomCode, fields map[string]string) error {
	r.writes.Add(1)
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	r.lastWrite = fields
	hook := r.beforeWrite
	r.beforeWrite = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return r.RoomStore.WriteFields(ctx, code, fields)
}

func (r *recordingStore) SetExpiry(ctx context.Context, code model.RoomCode, ttl time.Duration) error {
	r.expiries.Add(1)
	if r.fail != nil {
		return r.fail
	}
	return r.RoomStore.SetExpiry(ctx, code, ttl)
}

func (r *recordingStore) calls() int32 {
	return r.exists.Load() + r.reads.Load() + r.writes.Load() + r.expiries.Load()
}

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	store   *recordingStore
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	manager *Manager
	logs    *testutil.LogBuffer
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New(s.clock)
	s.store = &recordingStore{RoomStore: s.storage}
	logger, logs := testutil.CaptureLogger()
	s.logs = logs
	s.manager = NewManager(s.store, s.clock, s.random, DefaultConfig(), logger)
	s.ctx = context.Background()
}

// createRoom queues a room code of ALPHA-<number> and creates it
func (s *ManagerSuite) createRoom(number int, name string, id model.PlayerID) *model.RoomState {
	s.random.QueueIntn(0, number)
	room, err := s.manager.CreateRoom(s.ctx, name, id)
	s.Require().NoError(err)
	return room
}

func (s *ManagerSuite) fillRoom(code model.RoomCode, total int) {
	room, err := s.manager.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	for i := len(room.Players); i < total; i++ {
		_, err := s.manager.JoinRoom(s.ctx, code, fmt.Sprintf("Player%d", i+1), model.PlayerID(fmt.Sprintf("p%d", i+1)))
		s.Require().NoError(err)
	}
}

// CreateRoom tests

func (s *ManagerSuite) TestCreateRoomSucceeds() {
	s.random.QueueIntn(0, 1234)

	room, err := s.manager.CreateRoom(s.ctx, "Alice", "")
	s.Require().NoError(err)

	s.Equal(model.RoomCode("ALPHA-1234"), room.Code)
	s.Equal(model.RoomModeOpen, room.Mode)
	s.Equal(s.clock.Now(), room.CreatedAt)
	s.Require().Len(room.Players, 1)
	s.Equal(room.Players[0].ID, room.CreatorPlayerID)
	s.NotEmpty(room.Players[0].ID)
	s.Equal("Alice", room.Players[0].Name)
	s.True(room.Players[0].Connected)
	s.Require().NotNil(room.Players[0].ConnectedAt)
	s.Equal(s.clock.Now(), *room.Players[0].ConnectedAt)
	s.NotNil(room.RollHistory)
	s.Empty(room.RollHistory)
}

func (s *ManagerSuite) TestCreateRoomPersists() {
	created := s.createRoom(7, "Alice", "sess-1")

	stored, err := s.manager.GetRoom(s.ctx, created.Code)
	s.Require().NoError(err)
	s.Equal(created, stored)
	s.Equal(model.PlayerID("sess-1"), stored.CreatorPlayerID)
}

func (s *ManagerSuite) TestCreateRoomSanitizesName() {
	room := s.createRoom(1, "  <i>Al ", "")

	s.Equal("&lt;i&gt;Al", room.Players[0].Name)
}

func (s *ManagerSuite) TestCreateRoomSetsTTL() {
	room := s.createRoom(1, "Alice", "")

	s.clock.Advance(5*time.Hour - time.Second)
	exists, err := s.manager.RoomExists(s.ctx, room.Code)
	s.Require().NoError(err)
	s.True(exists)

	s.clock.Advance(time.Second)
	exists, err = s.manager.RoomExists(s.ctx, room.Code)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ManagerSuite) TestCreateRoomValidationTouchesNoStore() {
	_, err := s.manager.CreateRoom(s.ctx, "   ", "")
	s.ErrorIs(err, model.ErrValidation)
	s.Equal(model.KindValidation, model.KindOf(err))
	s.Equal("Player name is required", err.Error())

	_, err = s.manager.CreateRoom(s.ctx, "ABCDEFGHIJKLMNOPQRSTU", "")
	s.ErrorIs(err, model.ErrValidation)
	s.Equal("Player name must be 20 characters or less", err.Error())

	s.Equal(int32(0), s.store.calls())
}

func (s *ManagerSuite) TestCreateRoomRetriesOnCollision() {
	s.createRoom(1, "Alice", "")

	// First candidate collides with ALPHA-0001, second is free
	s.random.QueueIntn(0, 1, 1, 1)
	room, err := s.manager.CreateRoom(s.ctx, "Bob", "")
	s.Require().NoError(err)

	s.Equal(model.RoomCode("BRAVO-0001"), room.Code)

	collision := s.logs.Find("room code collision")
	s.Require().NotNil(collision)
	s.Equal("ALPHA-0001", collision["room_code"])
	s.Equal("WARN", collision["level"])
}

func (s *ManagerSuite) TestCreateRoomCollisionExhausted() {
	s.store.alwaysExists = true

	_, err := s.manager.CreateRoom(s.ctx, "Alice", "")

	s.ErrorIs(err, model.ErrCodeGenerationExhausted)
	s.Equal(model.KindCodeGenerationExhausted, model.KindOf(err))
	s.Equal(int32(10), s.store.exists.Load())
	s.Equal(int32(0), s.store.writes.Load())

	exhausted := s.logs.Find("room code generation exhausted")
	s.Require().NotNil(exhausted)
	s.Equal("ERROR", exhausted["level"])
}

func (s *ManagerSuite) TestCreateRoomStoreFailure() {
	s.store.fail = errors.New("connection refused")

	_, err := s.manager.CreateRoom(s.ctx, "Alice", "")

	s.Require().Error(err)
	s.Equal(model.KindInternal, model.KindOf(err))
	s.Equal(int32(1), s.store.exists.Load())
}

// GetRoom tests

func (s *ManagerSuite) TestGetRoomNotFound() {
	_, err := s.manager.GetRoom(s.ctx, "NOPE-0000")

	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Equal("Room NOPE-0000 not found", err.Error())
}

func (s *ManagerSuite) TestGetRoomDoesNotRefreshTTL() {
	room := s.createRoom(1, "Alice", "")
	expiries := s.store.expiries.Load()

	_, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Equal(expiries, s.store.expiries.Load())
}

// Capacity tests

func (s *ManagerSuite) TestGetRoomCapacity() {
	room := s.createRoom(1, "Alice", "")
	s.fillRoom(room.Code, 3)

	current, limit, err := s.manager.GetRoomCapacity(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(3, current)
	s.Equal(8, limit)
}

func (s *ManagerSuite) TestGetRoomCapacityNotFound() {
	_, _, err := s.manager.GetRoomCapacity(s.ctx, "NOPE-0000")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// JoinRoom tests

func (s *ManagerSuite) TestJoinRoomAppendsInOrder() {
	room := s.createRoom(1, "Alice", "p0")

	joined, err := s.manager.JoinRoom(s.ctx, room.Code, "Bob", "p1")
	s.Require().NoError(err)
	joined, err = s.manager.JoinRoom(s.ctx, room.Code, "Carol", "p2")
	s.Require().NoError(err)

	s.Require().Len(joined.Players, 3)
	s.Equal([]model.PlayerID{"p0", "p1", "p2"}, []model.PlayerID{
		joined.Players[0].ID, joined.Players[1].ID, joined.Players[2].ID,
	})
	s.Equal("Carol", joined.Players[2].Name)
	s.True(joined.Players[2].Connected)
	s.Equal(model.PlayerID("p0"), joined.CreatorPlayerID)
}

func (s *ManagerSuite) TestJoinRoomAllocatesPlayerID() {
	room := s.createRoom(1, "Alice", "")

	joined, err := s.manager.JoinRoom(s.ctx, room.Code, "Bob", "")
	s.Require().NoError(err)

	s.NotEmpty(joined.Players[1].ID)
	s.NotEqual(joined.Players[0].ID, joined.Players[1].ID)
}

func (s *ManagerSuite) TestJoinRoomSeventhToEighthSucceeds() {
	room := s.createRoom(1, "Alice", "")
	s.fillRoom(room.Code, 7)

	joined, err := s.manager.JoinRoom(s.ctx, room.Code, "Eighth", "")
	s.Require().NoError(err)
	s.Len(joined.Players, 8)
	s.Equal("Eighth", joined.Players[7].Name)
}

func (s *ManagerSuite) TestJoinRoomAtCapacityFails() {
	room := s.createRoom(1, "Alice", "")
	s.fillRoom(room.Code, 8)

	_, err := s.manager.JoinRoom(s.ctx, room.Code, "Ninth", "")

	s.ErrorIs(err, model.ErrRoomFull)
	s.Equal(model.KindCapacityExceeded, model.KindOf(err))
	s.Equal("Room ALPHA-0001 is at full capacity (8 players)", err.Error())

	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Len(stored.Players, 8)
}

func (s *ManagerSuite) TestJoinRoomNotFound() {
	_, err := s.manager.JoinRoom(s.ctx, "NOPE-0000", "Bob", "")

	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Equal(int32(0), s.store.writes.Load())
}

func (s *ManagerSuite) TestJoinRoomValidatesBeforeReading() {
	room := s.createRoom(1, "Alice", "")
	before := s.store.calls()

	_, err := s.manager.JoinRoom(s.ctx, room.Code, "", "")
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.manager.JoinRoom(s.ctx, "NOPE-0000", "ABCDEFGHIJKLMNOPQRSTU", "")
	s.ErrorIs(err, model.ErrValidation)

	s.Equal(before, s.store.calls())
}

func (s *ManagerSuite) TestJoinRoomRefreshesTTL() {
	room := s.createRoom(1, "Alice", "")

	s.clock.Advance(4 * time.Hour)
	_, err := s.manager.JoinRoom(s.ctx, room.Code, "Bob", "")
	s.Require().NoError(err)

	s.clock.Advance(4 * time.Hour)
	exists, err := s.manager.RoomExists(s.ctx, room.Code)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ManagerSuite) TestJoinRoomExistingPlayerReconnects() {
	room := s.createRoom(1, "Alice", "p0")
	s.fillRoom(room.Code, 8)
	s.Require().NoError(s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p3", false))

	s.clock.Advance(time.Minute)
	joined, err := s.manager.JoinRoom(s.ctx, room.Code, "Player3", "p3")
	s.Require().NoError(err)

	s.Len(joined.Players, 8)
	p := joined.GetPlayer("p3")
	s.Require().NotNil(p)
	s.True(p.Connected)
	s.Equal(s.clock.Now(), *p.LastActivity)
}

func (s *ManagerSuite) TestConcurrentJoinsArePreserved() {
	room := s.createRoom(1, "Alice", "p0")
	s.fillRoom(room.Code, 6)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []model.PlayerID{"late-a", "late-b"} {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.manager.JoinRoom(s.ctx, room.Code, string(id), id)
		}()
	}
	wg.Wait()

	s.NoError(errs[0])
	s.NoError(errs[1])

	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Len(stored.Players, 8)
	s.NotNil(stored.GetPlayer("late-a"))
	s.NotNil(stored.GetPlayer("late-b"))
}

func (s *ManagerSuite) TestConcurrentJoinsNeverExceedCapacity() {
	room := s.createRoom(1, "Alice", "p0")

	var wg sync.WaitGroup
	var joined, full atomic.Int32
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.manager.JoinRoom(s.ctx, room.Code, fmt.Sprintf("P%d", i), "")
			switch {
			case err == nil:
				joined.Add(1)
			case errors.Is(err, model.ErrRoomFull):
				full.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(7), joined.Load())
	s.Equal(int32(13), full.Load())

	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Len(stored.Players, 8)
}

// UpdatePlayerStatus tests

func (s *ManagerSuite) TestUpdatePlayerStatus() {
	room := s.createRoom(1, "Alice", "p0")
	s.clock.Advance(10 * time.Minute)

	err := s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p0", false)
	s.Require().NoError(err)

	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.False(stored.Players[0].Connected)
	s.Require().NotNil(stored.Players[0].LastActivity)
	s.Equal(s.clock.Now(), *stored.Players[0].LastActivity)
}

func (s *ManagerSuite) TestUpdatePlayerStatusMissingRoomIsNoop() {
	err := s.manager.UpdatePlayerStatus(s.ctx, "NOPE-0000", "p0", false)

	s.NoError(err)
	s.Equal(int32(0), s.store.writes.Load())
}

func (s *ManagerSuite) TestUpdatePlayerStatusMissingPlayerIsNoop() {
	room := s.createRoom(1, "Alice", "p0")
	writes := s.store.writes.Load()

	err := s.manager.UpdatePlayerStatus(s.ctx, room.Code, "ghost", false)

	s.NoError(err)
	s.Equal(writes, s.store.writes.Load())
}

func (s *ManagerSuite) TestUpdatePlayerStatusStoreFailure() {
	room := s.createRoom(1, "Alice", "p0")
	s.store.fail = errors.New("connection reset")

	err := s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p0", false)

	s.Error(err)
	s.Equal(model.KindInternal, model.KindOf(err))
}

// expireBeforeNextWrite lets the next store write land after the room's TTL
// has run out, as when a room expires between a read and its write-back
func (s *ManagerSuite) expireBeforeNextWrite() {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.beforeWrite = func() { s.clock.Advance(DefaultConfig().TTL + time.Hour) }
}

func (s *ManagerSuite) TestUpdatePlayerStatusRoomExpiresBeforeWrite() {
	room := s.createRoom(2, "Alice", "p0")
	s.expireBeforeNextWrite()

	s.Require().NoError(s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p0", false))

	// The full write-back recreates the whole room under its own code
	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(room.Code, stored.Code)
	s.Require().Len(stored.Players, 1)
	s.False(stored.Players[0].Connected)

	exists, err := s.storage.Exists(s.ctx, "")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ManagerSuite) TestJoinRoomRoomExpiresBeforeWrite() {
	room := s.createRoom(2, "Alice", "p0")
	s.expireBeforeNextWrite()

	joined, err := s.manager.JoinRoom(s.ctx, room.Code, "Bob", "p1")
	s.Require().NoError(err)
	s.Equal(room.Code, joined.Code)

	stored, err := s.manager.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(room.Code, stored.Code)
	s.Len(stored.Players, 2)

	exists, err := s.storage.Exists(s.ctx, "")
	s.Require().NoError(err)
	s.False(exists)
}

// GetDisconnectedPlayers tests

func (s *ManagerSuite) TestGetDisconnectedPlayers() {
	room := s.createRoom(1, "Alice", "p0")
	s.fillRoom(room.Code, 4)
	s.Require().NoError(s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p3", false))
	s.Require().NoError(s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p2", false))

	players, err := s.manager.GetDisconnectedPlayers(s.ctx, room.Code)
	s.Require().NoError(err)

	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("p2"), players[0].ID)
	s.Equal(model.PlayerID("p3"), players[1].ID)
}

func (s *ManagerSuite) TestGetDisconnectedPlayersMissingRoom() {
	players, err := s.manager.GetDisconnectedPlayers(s.ctx, "NOPE-0000")

	s.NoError(err)
	s.NotNil(players)
	s.Empty(players)
}

// Roll history tests

func (s *ManagerSuite) roll(id string, total int) model.RollRecord {
	return model.RollRecord{
		ID:                id,
		PlayerID:          "p0",
		PlayerName:        "Alice",
		Formula:           "1d20",
		IndividualResults: []int{total},
		Total:             total,
		Timestamp:         s.clock.Now(),
	}
}

func (s *ManagerSuite) TestAddRollToHistoryAppends() {
	room := s.createRoom(1, "Alice", "p0")

	for i := 1; i <= 3; i++ {
		s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll(fmt.Sprintf("r%d", i), i)))
	}

	history, err := s.manager.GetRollHistory(s.ctx, room.Code, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal("r1", history[0].ID)
	s.Equal("r3", history[2].ID)
}

func (s *ManagerSuite) TestAddRollToHistoryWritesOnlyHistory() {
	room := s.createRoom(1, "Alice", "p0")

	s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll("r1", 5)))

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.Len(s.store.lastWrite, 1)
	s.Contains(s.store.lastWrite, storage.FieldRollHistory)
}

func (s *ManagerSuite) TestAddRollToHistoryRefreshesTTL() {
	room := s.createRoom(1, "Alice", "p0")

	s.clock.Advance(4 * time.Hour)
	s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll("r1", 5)))
	s.clock.Advance(4 * time.Hour)

	_, err := s.manager.GetRoom(s.ctx, room.Code)
	s.NoError(err)
}

func (s *ManagerSuite) TestAddRollToHistoryMissingRoomIsNoop() {
	err := s.manager.AddRollToHistory(s.ctx, "NOPE-0000", s.roll("r1", 5))

	s.NoError(err)
	s.Equal(int32(0), s.store.writes.Load())

	exists, err := s.storage.Exists(s.ctx, "NOPE-0000")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ManagerSuite) TestAddRollToHistoryRoomExpiresBeforeWrite() {
	room := s.createRoom(2, "Alice", "p0")
	s.expireBeforeNextWrite()

	// Only roll_history is written, so the leftover hash is not a room
	s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll("r1", 5)))

	_, err := s.manager.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, _, err = s.manager.GetRoomCapacity(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)

	history, err := s.manager.GetRollHistory(s.ctx, room.Code, 0, 0)
	s.Require().NoError(err)
	s.Empty(history)

	_, err = s.manager.JoinRoom(s.ctx, room.Code, "Bob", "p1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	s.Require().NoError(s.manager.UpdatePlayerStatus(s.ctx, room.Code, "p0", false))

	exists, err := s.storage.Exists(s.ctx, "")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ManagerSuite) TestGetRollHistoryPagination() {
	room := s.createRoom(1, "Alice", "p0")
	for i := 0; i < 10; i++ {
		s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll(fmt.Sprintf("r%d", i), i+1)))
	}

	ids := func(rolls []model.RollRecord) []string {
		out := make([]string, len(rolls))
		for i, r := range rolls {
			out[i] = r.ID
		}
		return out
	}

	page, err := s.manager.GetRollHistory(s.ctx, room.Code, 2, 3)
	s.Require().NoError(err)
	s.Equal([]string{"r2", "r3", "r4"}, ids(page))

	page, err = s.manager.GetRollHistory(s.ctx, room.Code, 8, 5)
	s.Require().NoError(err)
	s.Equal([]string{"r8", "r9"}, ids(page))

	page, err = s.manager.GetRollHistory(s.ctx, room.Code, 10, 5)
	s.Require().NoError(err)
	s.Empty(page)

	page, err = s.manager.GetRollHistory(s.ctx, room.Code, -3, 2)
	s.Require().NoError(err)
	s.Equal([]string{"r0", "r1"}, ids(page))
}

func (s *ManagerSuite) TestGetRollHistoryHugeLimitAndOffset() {
	room := s.createRoom(1, "Alice", "p0")
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.manager.AddRollToHistory(s.ctx, room.Code, s.roll(fmt.Sprintf("r%d", i), i+1)))
	}

	var page []model.RollRecord
	var err error
	s.NotPanics(func() {
		page, err = s.manager.GetRollHistory(s.ctx, room.Code, 1, math.MaxInt)
	})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("r1", page[0].ID)
	s.Equal("r2", page[1].ID)

	s.NotPanics(func() {
		page, err = s.manager.GetRollHistory(s.ctx, room.Code, math.MaxInt, math.MaxInt)
	})
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *ManagerSuite) TestGetRollHistoryDefaultLimit() {
	cfg := DefaultConfig()
	cfg.HistoryPageLimit = 4
	manager := NewManager(s.store, s.clock, s.random, cfg, testutil.NopLogger())
	s.random.QueueIntn(0, 1)
	room, err := manager.CreateRoom(s.ctx, "Alice", "p0")
	s.Require().NoError(err)
	for i := 0; i < 6; i++ {
		s.Require().NoError(manager.AddRollToHistory(s.ctx, room.Code, s.roll(fmt.Sprintf("r%d", i), 1)))
	}

	page, err := manager.GetRollHistory(s.ctx, room.Code, 0, 0)
	s.Require().NoError(err)
	s.Len(page, 4)
}

func (s *ManagerSuite) TestGetRollHistoryMissingRoom() {
	history, err := s.manager.GetRollHistory(s.ctx, "NOPE-0000", 0, 10)

	s.NoError(err)
	s.NotNil(history)
	s.Empty(history)
}

func (s *ManagerSuite) TestConcurrentRollsAreAllKept() {
	room := s.createRoom(1, "Alice", "p0")

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.manager.AddRollToHistory(s.ctx, room.Code, s.roll(fmt.Sprintf("r%d", i), 1))
		}()
	}
	wg.Wait()

	history, err := s.manager.GetRollHistory(s.ctx, room.Code, 0, 100)
	s.Require().NoError(err)
	s.Len(history, 25)
}
