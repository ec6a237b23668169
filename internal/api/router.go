package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sfines/sdd-process-example/internal/api/handler"
	"github.com/sfines/sdd-process-example/internal/api/middleware"
	coremw "github.com/sfines/sdd-process-example/internal/middleware"
	"github.com/sfines/sdd-process-example/internal/realtime"
	"github.com/sfines/sdd-process-example/internal/services/roll"
	"github.com/sfines/sdd-process-example/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomManager    *room.Manager
	RollService    *roll.Service
	HubManager     *realtime.HubManager
	Broadcaster    *realtime.Broadcaster
	Gateway        http.Handler
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.RoomManager, cfg.HubManager, cfg.Broadcaster, cfg.Logger)
	rollHandler := handler.NewRollHandler(cfg.RollService, cfg.Broadcaster, cfg.Logger)

	// Common middleware. Logging wraps recovery so recovered panics are logged as 500s
	r.Use(coremw.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.HandleFunc("/api/health", handler.Health).Methods(http.MethodGet, http.MethodOptions)

	if cfg.Gateway != nil {
		r.Handle("/ws", cfg.Gateway)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Room routes
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/capacity", roomHandler.Capacity).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/players/disconnected", roomHandler.DisconnectedPlayers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/players/{player_id}", roomHandler.UpdatePlayerStatus).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/events", roomHandler.Events).Methods(http.MethodGet)

	// Roll routes
	api.HandleFunc("/rooms/{code}/rolls", rollHandler.Roll).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{code}/rolls", roomHandler.RollHistory).Methods(http.MethodGet, http.MethodOptions)

	return r
}
