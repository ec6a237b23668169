package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sfines/sdd-process-example/internal/api/request"
	"github.com/sfines/sdd-process-example/internal/api/response"
	"github.com/sfines/sdd-process-example/internal/model"
	"github.com/sfines/sdd-process-example/internal/realtime"
	"github.com/sfines/sdd-process-example/internal/services/room"
	"github.com/sfines/sdd-process-example/internal/services/roomcode"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms       *room.Manager
	hubManager  *realtime.HubManager
	broadcaster *realtime.Broadcaster
	logger      *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Manager, hubManager *realtime.HubManager, broadcaster *realtime.Broadcaster, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:       rooms,
		hubManager:  hubManager,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// roomCode reads the {code} path variable. Codes that cannot have been
// generated are reported as missing rooms without touching the store.
func roomCode(r *http.Request) (model.RoomCode, error) {
	code := mux.Vars(r)["code"]
	if !roomcode.Valid(code) {
		return "", model.NewRoomNotFoundError(model.RoomCode(code))
	}
	return model.RoomCode(code), nil
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	state, err := h.rooms.CreateRoom(r.Context(), req.PlayerName, model.PlayerID(req.PlayerID))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Room{RoomState: state, CurrentPlayerID: state.CreatorPlayerID})
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	state, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req request.JoinRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	if playerID == "" {
		playerID = model.PlayerID(uuid.NewString())
	}

	state, err := h.rooms.JoinRoom(r.Context(), code, req.PlayerName, playerID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if player := state.GetPlayer(playerID); player != nil {
		h.broadcaster.PlayerJoined(code, *player, nil)
	}

	response.JSON(w, http.StatusOK, response.Room{RoomState: state, CurrentPlayerID: playerID})
}

// Capacity handles GET /api/v1/rooms/{code}/capacity
func (h *RoomHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	current, limit, err := h.rooms.GetRoomCapacity(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Capacity{Current: current, Max: limit})
}

// DisconnectedPlayers handles GET /api/v1/rooms/{code}/players/disconnected
func (h *RoomHandler) DisconnectedPlayers(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	players, err := h.rooms.GetDisconnectedPlayers(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, players)
}

// UpdatePlayerStatus handles PATCH /api/v1/rooms/{code}/players/{player_id}
func (h *RoomHandler) UpdatePlayerStatus(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	var req request.UpdatePlayerStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Connected == nil {
		writeError(w, r, h.logger, badRequest("connected is required"))
		return
	}

	if err := h.rooms.UpdatePlayerStatus(r.Context(), code, playerID, *req.Connected); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.broadcaster.PlayerStatus(code, playerID, *req.Connected)
	response.NoContent(w)
}

// RollHistory handles GET /api/v1/rooms/{code}/rolls
func (h *RoomHandler) RollHistory(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rolls, err := h.rooms.GetRollHistory(r.Context(), code, offset, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, rolls)
}

// Events handles GET /api/v1/rooms/{code}/events
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	code, err := roomCode(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	exists, err := h.rooms.RoomExists(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !exists {
		writeError(w, r, h.logger, model.NewRoomNotFoundError(code))
		return
	}

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))

	h.logger.Debug("event stream opened",
		slog.String("room_code", string(code)),
		slog.String("player_id", string(playerID)),
	)
	realtime.ServeSSE(w, r, h.hubManager, code, playerID)
}

// queryInt reads an optional integer query parameter, defaulting to 0
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}
