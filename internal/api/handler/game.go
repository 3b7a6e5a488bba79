package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nachoupps/chessy/internal/api/request"
	"github.com/nachoupps/chessy/internal/api/response"
	"github.com/nachoupps/chessy/internal/model"
	gamesvc "github.com/nachoupps/chessy/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	games *gamesvc.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *gamesvc.Service) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.WhitePlayer == "" || req.BlackPlayer == "" {
		WriteError(w, NewInvalidRequestError("white_player and black_player are required"))
		return
	}

	game, err := h.games.Create(r.Context(), req.Name, req.WhitePlayer, req.BlackPlayer, model.Mode(req.Mode))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.games.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Update handles PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	update := model.GameUpdate{
		Name:     req.Name,
		FEN:      req.FEN,
		Archived: req.Archived,
		UndoUsed: req.UndoUsed,
	}
	if req.Winner != nil {
		winner := model.Winner(*req.Winner)
		update.Winner = &winner
	}

	game, err := h.games.ApplyUpdate(r.Context(), id, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if err := h.games.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Clear handles DELETE /api/v1/games
func (h *GameHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req request.ClearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.games.ClearAll(r.Context(), req.Pin); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
