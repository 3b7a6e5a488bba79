package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nachoupps/chessy/internal/access"
	"github.com/nachoupps/chessy/internal/dependencies/clock"
	"github.com/nachoupps/chessy/internal/dependencies/random"
	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/services/openings"
	"github.com/nachoupps/chessy/internal/services/rules"
)

// GameSession is an authorized handle on one game. Every mutating action
// is checked against the session's role and the current turn before any
// request is sent, so denied actions never leave the process.
type GameSession struct {
	client *Client
	rules  *rules.Engine
	random random.Random
	logger *slog.Logger
	access *access.Session
	poller *GamePoller

	mu          sync.Mutex
	game        *model.Game
	moves       []string // algebraic notation, this session's observed line
	history     []string // positions before each local move, for rollback
	updateFn    func(*model.Game)
	concludedFn func(*model.Game)
}

// Open fetches the game, resolves the requested role against the pin and
// returns a session with a poller ready to run.
func Open(ctx context.Context, c *Client, clk clock.Clock, rnd random.Random, logger *slog.Logger, id model.GameID, role access.Role, pin string) (*GameSession, error) {
	game, err := c.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := c.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := access.Grant(game, players, role, pin)
	if err != nil {
		return nil, err
	}

	gs := &GameSession{
		client: c,
		rules:  rules.New(),
		random: rnd,
		logger: logger,
		access: sess,
		game:   game,
	}
	gs.poller = NewGamePoller(c, clk, logger, game)
	gs.poller.OnUpdate = gs.onRemoteUpdate
	gs.poller.OnConcluded = gs.onRemoteConcluded
	return gs, nil
}

// OnUpdate registers fn to run after the session has absorbed a remote
// update. Display code subscribes here; the poller's own callbacks carry
// the session's reconciliation and must not be replaced.
func (s *GameSession) OnUpdate(fn func(*model.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateFn = fn
}

// OnConcluded registers fn to run when the game is first seen concluded
func (s *GameSession) OnConcluded(fn func(*model.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concludedFn = fn
}

// Poller exposes the session's reconciler so the caller can run it
func (s *GameSession) Poller() *GamePoller {
	return s.poller
}

// Game returns the session's current view of the game
func (s *GameSession) Game() *model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Role returns the granted role
func (s *GameSession) Role() access.Role {
	return s.access.Role
}

func (s *GameSession) onRemoteUpdate(game *model.Game) {
	s.mu.Lock()
	if game.FEN != s.game.FEN {
		// A remote move invalidates this session's notion of the line
		s.moves = nil
		s.history = nil
	}
	s.game = game
	fn := s.updateFn
	s.mu.Unlock()

	if fn != nil {
		fn(game)
	}
}

func (s *GameSession) onRemoteConcluded(game *model.Game) {
	s.mu.Lock()
	fn := s.concludedFn
	s.mu.Unlock()

	if fn != nil {
		fn(game)
	}
}

func (s *GameSession) checkAction(action access.Action) error {
	if action == access.ActionMove {
		turn, err := s.rules.Turn(s.game.FEN)
		if err != nil {
			return err
		}
		return access.CanAct(s.access, s.game, action, turn)
	}
	return access.CanAct(s.access, s.game, action, "")
}

// Move validates and submits a move in coordinate form, for example
// "e2" to "e4" with an optional promotion piece ("q", "r", "b", "n").
func (s *GameSession) Move(ctx context.Context, from, to, promotion string) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAction(access.ActionMove); err != nil {
		return nil, err
	}

	result, err := s.rules.ApplyMove(s.game.FEN, from, to, promotion)
	if err != nil {
		return nil, err
	}

	update := model.GameUpdate{FEN: &result.FEN}
	if result.Over {
		winner := result.Winner
		update.Winner = &winner
	}

	prev := s.game.FEN
	game, err := s.client.UpdateGame(ctx, s.game.ID, update)
	if err != nil {
		return nil, err
	}

	s.history = append(s.history, prev)
	s.moves = append(s.moves, result.SAN)
	s.game = game
	s.poller.NoteLocalWrite(game)

	s.logger.Debug("move submitted",
		slog.String("game_id", string(game.ID)),
		slog.String("san", result.SAN))
	return game, nil
}

// Resign concedes the game to the opposing side
func (s *GameSession) Resign(ctx context.Context) (*model.Game, error) {
	winner := model.WinnerBlack
	if s.Role() == access.RoleBlack {
		winner = model.WinnerWhite
	}
	return s.conclude(ctx, access.ActionResign, winner)
}

// Draw concludes the game as drawn by agreement
func (s *GameSession) Draw(ctx context.Context) (*model.Game, error) {
	return s.conclude(ctx, access.ActionDraw, model.WinnerDraw)
}

func (s *GameSession) conclude(ctx context.Context, action access.Action, winner model.Winner) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAction(action); err != nil {
		return nil, err
	}

	game, err := s.client.UpdateGame(ctx, s.game.ID, model.GameUpdate{Winner: &winner})
	if err != nil {
		return nil, err
	}

	s.game = game
	s.poller.NoteLocalWrite(game)
	return game, nil
}

// Reset puts a live game back to the starting position
func (s *GameSession) Reset(ctx context.Context) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAction(access.ActionReset); err != nil {
		return nil, err
	}
	if s.game.Concluded() {
		return nil, model.ErrGameConcluded
	}

	fen := model.StartingFEN
	game, err := s.client.UpdateGame(ctx, s.game.ID, model.GameUpdate{FEN: &fen})
	if err != nil {
		return nil, err
	}

	s.moves = nil
	s.history = nil
	s.game = game
	s.poller.NoteLocalWrite(game)
	return game, nil
}

// Rollback takes back this session's last move. It is single use per
// game and only covers moves made through this session.
func (s *GameSession) Rollback(ctx context.Context) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAction(access.ActionUndo); err != nil {
		return nil, err
	}
	if s.game.UndoUsed {
		return nil, model.ErrUndoAlreadyUsed
	}
	if len(s.history) == 0 {
		return nil, fmt.Errorf("no local move to take back: %w", model.ErrInvalidInput)
	}

	prev := s.history[len(s.history)-1]
	used := true
	game, err := s.client.UpdateGame(ctx, s.game.ID, model.GameUpdate{FEN: &prev, UndoUsed: &used})
	if err != nil {
		return nil, err
	}

	s.history = s.history[:len(s.history)-1]
	if len(s.moves) > 0 {
		s.moves = s.moves[:len(s.moves)-1]
	}
	s.game = game
	s.poller.NoteLocalWrite(game)
	return game, nil
}

// LegalMoves lists the legal moves in the current position
func (s *GameSession) LegalMoves() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.LegalMoves(s.game.FEN)
}

// Hint picks a random legal move from the current position
func (s *GameSession) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves, err := s.rules.LegalMoves(s.game.FEN)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", model.ErrGameConcluded
	}
	return moves[s.random.Intn(len(moves))], nil
}

// Opening names the opening this session's line currently matches, or
// nil when the line left known territory or no local moves were made
func (s *GameSession) Opening() *openings.Opening {
	s.mu.Lock()
	defer s.mu.Unlock()
	return openings.Detect(s.moves)
}

// Captured lists the pieces each side has taken in the current position
func (s *GameSession) Captured() (byWhite, byBlack []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.CapturedPieces(s.game.FEN)
}
