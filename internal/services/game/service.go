package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nachoupps/chessy/internal/dependencies/clock"
	"github.com/nachoupps/chessy/internal/model"
	playersvc "github.com/nachoupps/chessy/internal/services/player"
	"github.com/nachoupps/chessy/internal/storage"
	"github.com/nachoupps/chessy/internal/storage/migrate"
)

// Service owns game records and their business transitions: creation,
// merge updates, conclusion bookkeeping and archival.
type Service struct {
	storage  storage.Storage
	migrator *migrate.Migrator
	players  *playersvc.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a game Service
func New(store storage.Storage, players *playersvc.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		migrator: migrate.New(store, logger),
		players:  players,
		clock:    clk,
		logger:   logger,
	}
}

// Create persists a new game at the standard starting position. The two
// player names must be present and distinct; their existence is not
// re-validated here (creation goes through callers that pick from the
// registered list).
func (s *Service) Create(ctx context.Context, name, whitePlayer, blackPlayer string, mode model.Mode) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" || whitePlayer == "" || blackPlayer == "" {
		return nil, fmt.Errorf("%w: name, white_player and black_player are required", model.ErrInvalidInput)
	}
	if strings.EqualFold(whitePlayer, blackPlayer) {
		return nil, fmt.Errorf("%w: players must be distinct", model.ErrInvalidInput)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", model.ErrInvalidInput, mode)
	}
	if mode == "" {
		mode = model.ModeRanked
	}

	game := &model.Game{
		ID:          model.GameID(uuid.NewString()),
		Name:        name,
		WhitePlayer: whitePlayer,
		BlackPlayer: blackPlayer,
		FEN:         model.StartingFEN,
		LastUpdated: s.clock.Now(),
		Mode:        mode,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("white", whitePlayer),
		slog.String("black", blackPlayer),
		slog.String("mode", string(mode)),
	)
	return game, nil
}

// Get retrieves a game by id
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// List returns all games, healing the legacy encoding transparently
func (s *Service) List(ctx context.Context) ([]*model.Game, error) {
	return s.migrator.Games(ctx)
}

// ApplyUpdate shallow-merges the partial update into the stored game and
// refreshes LastUpdated. It is the single mutation primitive behind move
// application, conclusion, reset, archival and rollback, and it enforces
// the terminal-state transitions:
//
//   - Winner is set at most once and never changes afterwards.
//   - A concluded game's position can no longer be mutated.
//   - Archived can only become true once a result exists.
//   - UndoUsed transitions false to true at most once.
//
// Setting Winner on a ranked-mode game applies rating bookkeeping to both
// participants exactly once, inside this guarded transition.
func (s *Service) ApplyUpdate(ctx context.Context, id model.GameID, update model.GameUpdate) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	concluding := false
	if update.Winner != nil {
		if game.Concluded() {
			return nil, model.ErrGameConcluded
		}
		if !update.Winner.Valid() {
			return nil, fmt.Errorf("%w: unknown winner %q", model.ErrInvalidInput, *update.Winner)
		}
		game.Winner = *update.Winner
		concluding = true
	}

	if update.FEN != nil {
		if game.Concluded() && !concluding {
			return nil, model.ErrGameConcluded
		}
		if strings.TrimSpace(*update.FEN) == "" {
			return nil, fmt.Errorf("%w: fen must not be empty", model.ErrInvalidInput)
		}
		game.FEN = *update.FEN
	}

	if update.Archived != nil {
		if *update.Archived && !game.Concluded() {
			return nil, model.ErrGameNotConcluded
		}
		// Archiving is one way, like conclusion
		if !*update.Archived && game.Archived {
			return nil, fmt.Errorf("%w: archived cannot be cleared", model.ErrInvalidInput)
		}
		game.Archived = *update.Archived
	}

	if update.UndoUsed != nil && *update.UndoUsed {
		if game.UndoUsed {
			return nil, model.ErrUndoAlreadyUsed
		}
		game.UndoUsed = true
	}

	if update.Name != nil {
		game.Name = *update.Name
	}

	game.LastUpdated = s.clock.Now()

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if concluding {
		s.settleRatings(ctx, game)
	}

	return game, nil
}

// Delete removes a single game
func (s *Service) Delete(ctx context.Context, id model.GameID) error {
	return s.storage.DeleteGame(ctx, id)
}

// ClearAll deletes the whole game collection. Gated by the fixed
// administrative pin.
func (s *Service) ClearAll(ctx context.Context, pin string) error {
	if pin != model.AdminPin {
		return model.ErrForbidden
	}
	s.logger.Warn("clearing all games")
	return s.storage.DeleteAllGames(ctx)
}

// settleRatings applies conclusion bookkeeping for a ranked game. A
// participant that no longer exists is skipped without failing the
// conclusion; bookkeeping errors are logged, not surfaced, since the
// result itself is already persisted.
func (s *Service) settleRatings(ctx context.Context, game *model.Game) {
	if !game.Mode.Ranked() {
		return
	}

	white, whiteErr := s.players.GetByName(ctx, game.WhitePlayer)
	black, blackErr := s.players.GetByName(ctx, game.BlackPlayer)
	if whiteErr != nil && !errors.Is(whiteErr, model.ErrPlayerNotFound) {
		s.logger.Error("rating settlement failed", slog.String("game_id", string(game.ID)), slog.String("error", whiteErr.Error()))
		return
	}
	if blackErr != nil && !errors.Is(blackErr, model.ErrPlayerNotFound) {
		s.logger.Error("rating settlement failed", slog.String("game_id", string(game.ID)), slog.String("error", blackErr.Error()))
		return
	}

	adjust := func(p *model.Player, outcome model.Outcome, delta int) {
		if p == nil {
			return
		}
		if _, err := s.players.AdjustRating(ctx, p.ID, outcome, delta); err != nil {
			s.logger.Error("rating adjustment failed",
				slog.String("game_id", string(game.ID)),
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	if whiteErr != nil {
		white = nil
	}
	if blackErr != nil {
		black = nil
	}

	switch game.Winner {
	case model.WinnerWhite:
		adjust(white, model.OutcomeWin, model.WinRatingDelta)
		adjust(black, model.OutcomeLoss, model.LossRatingDelta)
	case model.WinnerBlack:
		adjust(black, model.OutcomeWin, model.WinRatingDelta)
		adjust(white, model.OutcomeLoss, model.LossRatingDelta)
	case model.WinnerDraw:
		adjust(white, model.OutcomeDraw, model.DrawRatingDelta)
		adjust(black, model.OutcomeDraw, model.DrawRatingDelta)
	}

	s.logger.Info("game concluded",
		slog.String("game_id", string(game.ID)),
		slog.String("winner", string(game.Winner)),
		slog.String("mode", string(game.Mode)),
	)
}
