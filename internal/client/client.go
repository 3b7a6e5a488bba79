// Package client is the API consumer side of the application. It wraps
// the HTTP surface in typed calls, keeps a session's view of a game
// reconciled with the server by polling, and enforces access checks
// locally before a mutating request is ever issued.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nachoupps/chessy/internal/api/apierr"
	"github.com/nachoupps/chessy/internal/api/request"
	"github.com/nachoupps/chessy/internal/model"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error apierr.APIError `json:"error"`
}

// Do performs an HTTP request. Error responses carrying a known code are
// mapped back onto the model sentinel errors so callers can use errors.Is
// the same way they would against the services directly.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	// Polling reads must not be served from an intermediary cache
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			if sentinel := sentinelForCode(errResp.Error.Code); sentinel != nil {
				return fmt.Errorf("%s: %w", errResp.Error.Message, sentinel)
			}
			return fmt.Errorf("%s (%s)", errResp.Error.Message, errResp.Error.Code)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func sentinelForCode(code string) error {
	switch code {
	case apierr.CodePlayerNotFound:
		return model.ErrPlayerNotFound
	case apierr.CodeGameNotFound:
		return model.ErrGameNotFound
	case apierr.CodeDuplicateName:
		return model.ErrDuplicateName
	case apierr.CodeGameConcluded:
		return model.ErrGameConcluded
	case apierr.CodeGameNotConcluded:
		return model.ErrGameNotConcluded
	case apierr.CodeUndoAlreadyUsed:
		return model.ErrUndoAlreadyUsed
	case apierr.CodeIllegalMove:
		return model.ErrIllegalMove
	case apierr.CodeForbidden:
		return model.ErrForbidden
	case apierr.CodeAccessDenied:
		return model.ErrAccessDenied
	case apierr.CodeInvalidRequest:
		return model.ErrInvalidInput
	}
	return nil
}

// Health checks the server health endpoint
func (c *Client) Health(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

// ListPlayers fetches all registered players
func (c *Client) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var players []*model.Player
	if err := c.Do(ctx, http.MethodGet, "/api/v1/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// RegisterPlayer registers a new player
func (c *Client) RegisterPlayer(ctx context.Context, name, pin string) (*model.Player, error) {
	var player model.Player
	req := request.RegisterPlayerRequest{Name: name, Pin: pin}
	if err := c.Do(ctx, http.MethodPost, "/api/v1/players", req, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// GetPlayer fetches a player by id
func (c *Client) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := c.Do(ctx, http.MethodGet, "/api/v1/players/"+string(id), nil, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// AdjustPlayer applies an outcome and rating delta to a player's record
func (c *Client) AdjustPlayer(ctx context.Context, id model.PlayerID, outcome model.Outcome, delta int) (*model.Player, error) {
	var player model.Player
	req := request.UpdatePlayerRequest{Outcome: string(outcome), Delta: delta}
	if err := c.Do(ctx, http.MethodPatch, "/api/v1/players/"+string(id), req, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// ClearPlayers wipes the player collection. Requires the admin pin.
func (c *Client) ClearPlayers(ctx context.Context, pin string) error {
	return c.Do(ctx, http.MethodDelete, "/api/v1/players", request.ClearRequest{Pin: pin}, nil)
}

// ListGames fetches all games
func (c *Client) ListGames(ctx context.Context) ([]*model.Game, error) {
	var games []*model.Game
	if err := c.Do(ctx, http.MethodGet, "/api/v1/games", nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CreateGame creates a new game
func (c *Client) CreateGame(ctx context.Context, name, whitePlayer, blackPlayer string, mode model.Mode) (*model.Game, error) {
	var game model.Game
	req := request.CreateGameRequest{
		Name:        name,
		WhitePlayer: whitePlayer,
		BlackPlayer: blackPlayer,
		Mode:        string(mode),
	}
	if err := c.Do(ctx, http.MethodPost, "/api/v1/games", req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGame fetches a game by id
func (c *Client) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := c.Do(ctx, http.MethodGet, "/api/v1/games/"+string(id), nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame applies a partial update to a game
func (c *Client) UpdateGame(ctx context.Context, id model.GameID, update model.GameUpdate) (*model.Game, error) {
	var game model.Game
	req := request.UpdateGameRequest{
		Name:     update.Name,
		FEN:      update.FEN,
		Archived: update.Archived,
		UndoUsed: update.UndoUsed,
	}
	if update.Winner != nil {
		w := string(*update.Winner)
		req.Winner = &w
	}
	if err := c.Do(ctx, http.MethodPatch, "/api/v1/games/"+string(id), req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteGame removes a game
func (c *Client) DeleteGame(ctx context.Context, id model.GameID) error {
	return c.Do(ctx, http.MethodDelete, "/api/v1/games/"+string(id), nil, nil)
}

// ClearGames wipes the game collection. Requires the admin pin.
func (c *Client) ClearGames(ctx context.Context, pin string) error {
	return c.Do(ctx, http.MethodDelete, "/api/v1/games", request.ClearRequest{Pin: pin}, nil)
}
