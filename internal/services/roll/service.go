package roll

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sfines/sdd-process-example/internal/dependencies/clock"
	"github.com/sfines/sdd-process-example/internal/dependencies/random"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/services/dice"
	"github.com/sfines/sdd-process-example/internal/services/room"
	"github.com/sfines/sdd-process-example/internal/services/validation"
)

const (
	// RollIDLength is the length of generated roll IDs
	RollIDLength = 22
	// RollIDAlphabet is URL safe
	RollIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

// Request is a single roll by a player in a room
type Request struct {
	RoomCode   model.RoomCode
	PlayerID   model.PlayerID
	PlayerName string
	Formula    string
	// DC is an optional difficulty class the total is checked against
	DC *int
}

// Service rolls dice on behalf of players and records the results
type Service struct {
	rooms     *room.Manager
	evaluator *dice.Evaluator
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// New creates a new roll Service
func New(
	rooms *room.Manager,
	evaluator *dice.Evaluator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		rooms:     rooms,
		evaluator: evaluator,
		clock:     clock,
		random:    random,
		logger:    logger,
	}
}

// Roll evaluates the request's formula, appends the result to the room's
// history and returns it for broadcast
func (s *Service) Roll(ctx context.Context, req Request) (*model.RollRecord, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.rooms.RoomExists(ctx, req.RoomCode)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewRoomNotFoundError(req.RoomCode)
	}

	result, err := s.evaluator.Evaluate(req.Formula)
	if err != nil {
		s.logger.Warn("roll rejected",
			slog.String("room_code", string(req.RoomCode)),
			slog.String("formula", req.Formula),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	record := &model.RollRecord{
		ID:                s.random.String(RollIDLength, RollIDAlphabet),
		PlayerID:          req.PlayerID,
		PlayerName:        validation.SanitizeName(req.PlayerName),
		Formula:           req.Formula,
		IndividualResults: result.Rolls,
		Modifier:          result.Total - result.Sum(),
		Total:             result.Total,
		Timestamp:         s.clock.Now(),
	}
	if req.DC != nil {
		pass := result.Total >= *req.DC
		record.DCPass = &pass
	}

	if err := s.rooms.AddRollToHistory(ctx, req.RoomCode, *record); err != nil {
		return nil, err
	}

	s.logger.Info("dice rolled",
		slog.String("room_code", string(req.RoomCode)),
		slog.String("roll_id", record.ID),
		slog.String("formula", record.Formula),
		slog.Int("total", record.Total),
	)
	return record, nil
}

func checkRequest(req Request) error {
	switch {
	case strings.TrimSpace(req.Formula) == "":
		return model.NewValidationError("formula is required")
	case strings.TrimSpace(req.PlayerName) == "":
		return model.NewValidationError("player_name is required")
	case req.RoomCode == "":
		return model.NewValidationError("room_code is required")
	}
	return nil
}
