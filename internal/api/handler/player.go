package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nachoupps/chessy/internal/api/request"
	"github.com/nachoupps/chessy/internal/api/response"
	"github.com/nachoupps/chessy/internal/model"
	playersvc "github.com/nachoupps/chessy/internal/services/player"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players *playersvc.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *playersvc.Service) *PlayerHandler {
	return &PlayerHandler{
		players: players,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	player, err := h.players.Register(r.Context(), req.Name, req.Pin)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.players.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Update handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.players.AdjustRating(r.Context(), id, model.Outcome(req.Outcome), req.Delta)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Clear handles DELETE /api/v1/players
func (h *PlayerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req request.ClearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.players.ClearAll(r.Context(), req.Pin); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
