package handler

import (
	"log/slog"
	"net/http"

	"github.com/sfines/sdd-process-example/internal/api/request"
	"github.com/sfines/sdd-process-example/internal/api/response"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/realtime"
	"github.com/sfines/sdd-process-example/internal/services/roll"
)

// RollHandler handles dice roll endpoints
type RollHandler struct {
	rolls       *roll.Service
	broadcaster *realtime.Broadcaster
	logger      *slog.Logger
}

// NewRollHandler creates a new roll handler
func NewRollHandler(rolls *roll.Service, broadcaster *realtime.Broadcaster, logger *slog.Logger) *RollHandler {
	return &RollHandler{
		rolls:       rolls,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Roll handles POST /api/v1/rooms/{code}/rolls
func (h *RollHandler) Roll(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req request.RollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	record, err := h.rolls.Roll(r.Context(), roll.Request{
		RoomCode:   code,
		PlayerID:   model.PlayerID(req.PlayerID),
		PlayerName: req.PlayerName,
		Formula:    req.Formula,
		DC:         req.DC,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.broadcaster.RollResult(code, record)
	response.JSON(w, http.StatusCreated, record)
}
