// Package storagetest holds behaviour tests shared by every RoomStore backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/storage"
)

// RoomStoreSuite exercises a RoomStore. Embedders set Store and Advance in
// their SetupTest.
type RoomStoreSuite struct {
	suite.Suite
	Store storage.RoomStore
	// Advance moves the backend's notion of time forward
	Advance func(time.Duration)
}

func (s *RoomStoreSuite) ctx() context.Context {
	return context.Background()
}

func (s *RoomStoreSuite) TestMissingRoom() {
	exists, err := s.Store.Exists(s.ctx(), "NOPE-0000")
	s.Require().NoError(err)
	s.False(exists)

	fields, err := s.Store.ReadFields(s.ctx(), "NOPE-0000")
	s.Require().NoError(err)
	s.Empty(fields)
}

func (s *RoomStoreSuite) TestWriteAndReadFields() {
	err := s.Store.WriteFields(s.ctx(), "ALPHA-0001", map[string]string{
		storage.FieldRoomCode: "ALPHA-0001",
		storage.FieldMode:     model.RoomModeOpen,
	})
	s.Require().NoError(err)

	exists, err := s.Store.Exists(s.ctx(), "ALPHA-0001")
	s.Require().NoError(err)
	s.True(exists)

	fields, err := s.Store.ReadFields(s.ctx(), "ALPHA-0001")
	s.Require().NoError(err)
	s.Equal(map[string]string{"room_code": "ALPHA-0001", "mode": "Open"}, fields)
}

func (s *RoomStoreSuite) TestWriteFieldsIsUpsert() {
	s.Require().NoError(s.Store.WriteFields(s.ctx(), "ALPHA-0002", map[string]string{
		"a": "1",
		"b": "2",
	}))
	s.Require().NoError(s.Store.WriteFields(s.ctx(), "ALPHA-0002", map[string]string{
		"b": "20",
		"c": "30",
	}))

	fields, err := s.Store.ReadFields(s.ctx(), "ALPHA-0002")
	s.Require().NoError(err)
	s.Equal(map[string]string{"a": "1", "b": "20", "c": "30"}, fields)
}

func (s *RoomStoreSuite) TestReadFieldsReturnsCopy() {
	s.Require().NoError(s.Store.WriteFields(s.ctx(), "ALPHA-0003", map[string]string{"a": "1"}))

	fields, err := s.Store.ReadFields(s.ctx(), "ALPHA-0003")
	s.Require().NoError(err)
	fields["a"] = "mutated"

	again, err := s.Store.ReadFields(s.ctx(), "ALPHA-0003")
	s.Require().NoError(err)
	s.Equal("1", again["a"])
}

func (s *RoomStoreSuite) TestExpiry() {
	s.Require().NoError(s.Store.WriteFields(s.ctx(), "ALPHA-0004", map[string]string{"a": "1"}))
	s.Require().NoError(s.Store.SetExpiry(s.ctx(), "ALPHA-0004", time.Hour))

	s.Advance(59 * time.Minute)
	exists, err := s.Store.Exists(s.ctx(), "ALPHA-0004")
	s.Require().NoError(err)
	s.True(exists)

	s.Advance(2 * time.Minute)
	exists, err = s.Store.Exists(s.ctx(), "ALPHA-0004")
	s.Require().NoError(err)
	s.False(exists)

	fields, err := s.Store.ReadFields(s.ctx(), "ALPHA-0004")
	s.Require().NoError(err)
	s.Empty(fields)
}

func (s *RoomStoreSuite) TestExpiryRefresh() {
	s.Require().NoError(s.Store.WriteFields(s.ctx(), "ALPHA-0005", map[string]string{"a": "1"}))
	s.Require().NoError(s.Store.SetExpiry(s.ctx(), "ALPHA-0005", time.Hour))

	s.Advance(45 * time.Minute)
	s.Require().NoError(s.Store.SetExpiry(s.ctx(), "ALPHA-0005", time.Hour))

	s.Advance(45 * time.Minute)
	exists, err := s.Store.Exists(s.ctx(), "ALPHA-0005")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RoomStoreSuite) TestExpiryOnMissingRoomIsHarmless() {
	s.NoError(s.Store.SetExpiry(s.ctx(), "NOPE-0001", time.Hour))

	exists, err := s.Store.Exists(s.ctx(), "NOPE-0001")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RoomStoreSuite) TestRoomRoundTrip() {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	room := &model.RoomState{
		Code:            "BRAVO-0042",
		Mode:            model.RoomModeOpen,
		CreatedAt:       now,
		CreatorPlayerID: "p1",
		Players: []model.Player{
			{ID: "p1", Name: "Alice", Connected: true, ConnectedAt: &now},
			{ID: "p2", Name: "Bob", Connected: true, ConnectedAt: &now},
		},
		RollHistory: []model.RollRecord{
			{ID: "r1", PlayerID: "p2", PlayerName: "Bob", Formula: "1d6", IndividualResults: []int{4}, Total: 4, Timestamp: now},
			{ID: "r2", PlayerID: "p1", PlayerName: "Alice", Formula: "1d6+2", IndividualResults: []int{1}, Modifier: 2, Total: 3, Timestamp: now},
		},
	}

	fields, err := storage.EncodeRoom(room)
	s.Require().NoError(err)
	s.Require().NoError(s.Store.WriteFields(s.ctx(), room.Code, fields))

	read, err := s.Store.ReadFields(s.ctx(), room.Code)
	s.Require().NoError(err)
	decoded, err := storage.DecodeRoom(read)
	s.Require().NoError(err)
	s.Equal(room, decoded)
}
