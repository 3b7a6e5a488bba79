package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nachoupps/chessy/internal/api/handler"
	"github.com/nachoupps/chessy/internal/api/middleware"
	gamesvc "github.com/nachoupps/chessy/internal/services/game"
	playersvc "github.com/nachoupps/chessy/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *playersvc.Service
	GameService   *gamesvc.Service
}

// NewRouter creates a new API router with all routes configured.
// Access checks are not enforced here; clients gate mutating actions
// before they issue requests, so the API surface stays plain CRUD.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	gameHandler := handler.NewGameHandler(cfg.GameService)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPatch)

	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
