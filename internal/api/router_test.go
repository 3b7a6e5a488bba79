package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nachoupps/chessy/internal/api"
	"github.com/nachoupps/chessy/internal/api/apierr"
	"github.com/nachoupps/chessy/internal/api/response"
	"github.com/nachoupps/chessy/internal/dependencies/mocks"
	"github.com/nachoupps/chessy/internal/factory"
	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/storage/memory"
	"github.com/nachoupps/chessy/internal/testutil"
)

type RouterSuite struct {
	suite.Suite
	server *httptest.Server
	app    *factory.App
	ctx    context.Context
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.app = factory.NewWithDependencies(memory.New(), clk, mocks.NewMockRandom(), logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: s.app.PlayerService,
		GameService:   s.app.GameService,
	})
	s.server = httptest.NewServer(router)
	s.ctx = context.Background()
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) request(method, path string, body any) (*http.Response, []byte) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return resp, buf.Bytes()
}

func (s *RouterSuite) errorCode(body []byte) string {
	var errResp apierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(body, &errResp))
	return errResp.Error.Code
}

func (s *RouterSuite) TestHealth() {
	resp, body := s.request(http.MethodGet, "/api/v1/health", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().JSONEq(`{"status":"ok"}`, string(body))
}

func (s *RouterSuite) TestRegisterPlayer() {
	resp, body := s.request(http.MethodPost, "/api/v1/players", map[string]string{
		"name": "Alice",
		"pin":  "1234",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var player response.Player
	s.Require().NoError(json.Unmarshal(body, &player))
	s.Require().Equal("Alice", player.Name)
	s.Require().Equal(model.InitialRating, player.Rating)
	s.Require().NotEmpty(player.ID)
}

func (s *RouterSuite) TestRegisterPlayerValidation() {
	resp, body := s.request(http.MethodPost, "/api/v1/players", map[string]string{})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal(apierr.CodeInvalidRequest, s.errorCode(body))

	resp, body = s.request(http.MethodPost, "/api/v1/players", map[string]string{
		"name": "Alice",
		"pin":  "12",
	})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Require().Equal(apierr.CodeInvalidRequest, s.errorCode(body))
}

func (s *RouterSuite) TestRegisterDuplicateConflicts() {
	resp, _ := s.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Alice"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, body := s.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "alice"})
	s.Require().Equal(http.StatusConflict, resp.StatusCode)
	s.Require().Equal(apierr.CodeDuplicateName, s.errorCode(body))
}

func (s *RouterSuite) TestGetPlayerNotFound() {
	resp, body := s.request(http.MethodGet, "/api/v1/players/nope", nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
	s.Require().Equal(apierr.CodePlayerNotFound, s.errorCode(body))
}

func (s *RouterSuite) TestClearPlayersGate() {
	resp, body := s.request(http.MethodDelete, "/api/v1/players", map[string]string{"pin": "9999"})
	s.Require().Equal(http.StatusForbidden, resp.StatusCode)
	s.Require().Equal(apierr.CodeForbidden, s.errorCode(body))

	resp, _ = s.request(http.MethodDelete, "/api/v1/players", map[string]string{"pin": model.AdminPin})
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *RouterSuite) createGame() response.Game {
	resp, body := s.request(http.MethodPost, "/api/v1/games", map[string]string{
		"name":         "friday night",
		"white_player": "Alice",
		"black_player": "Bob",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var game response.Game
	s.Require().NoError(json.Unmarshal(body, &game))
	return game
}

func (s *RouterSuite) TestGameLifecycle() {
	game := s.createGame()
	s.Require().Equal(model.StartingFEN, game.FEN)
	s.Require().Nil(game.Winner)

	resp, body := s.request(http.MethodGet, "/api/v1/games/"+game.ID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got response.Game
	s.Require().NoError(json.Unmarshal(body, &got))
	s.Require().Equal(game.ID, got.ID)

	resp, _ = s.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, body = s.request(http.MethodGet, "/api/v1/games/"+game.ID, nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
	s.Require().Equal(apierr.CodeGameNotFound, s.errorCode(body))
}

func (s *RouterSuite) TestPatchGame() {
	game := s.createGame()

	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	resp, body := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"fen": fen})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var updated response.Game
	s.Require().NoError(json.Unmarshal(body, &updated))
	s.Require().Equal(fen, updated.FEN)
}

func (s *RouterSuite) TestTerminalStateConflicts() {
	game := s.createGame()

	resp, _ := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"winner": "w"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"winner": "b"})
	s.Require().Equal(http.StatusConflict, resp.StatusCode)
	s.Require().Equal(apierr.CodeGameConcluded, s.errorCode(body))
}

func (s *RouterSuite) TestArchiveBeforeConclusionConflicts() {
	game := s.createGame()

	resp, body := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"archived": true})
	s.Require().Equal(http.StatusConflict, resp.StatusCode)
	s.Require().Equal(apierr.CodeGameNotConcluded, s.errorCode(body))
}

func (s *RouterSuite) TestUndoConflict() {
	game := s.createGame()

	resp, _ := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"undo_used": true})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.request(http.MethodPatch, "/api/v1/games/"+game.ID, map[string]any{"undo_used": true})
	s.Require().Equal(http.StatusConflict, resp.StatusCode)
	s.Require().Equal(apierr.CodeUndoAlreadyUsed, s.errorCode(body))
}

func (s *RouterSuite) TestInvalidJSONBody() {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/v1/players", bytes.NewReader([]byte("{")))
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *RouterSuite) TestListGames() {
	for i := 0; i < 3; i++ {
		_, err := s.app.GameService.Create(s.ctx,
			fmt.Sprintf("game %d", i), fmt.Sprintf("w%d", i), fmt.Sprintf("b%d", i), "")
		s.Require().NoError(err)
	}

	resp, body := s.request(http.MethodGet, "/api/v1/games", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var games []response.Game
	s.Require().NoError(json.Unmarshal(body, &games))
	s.Require().Len(games, 3)
}
