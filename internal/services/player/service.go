package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/storage"
	"github.com/nachoupps/chessy/internal/storage/migrate"
)

// Service enforces uniqueness, validation and rating bookkeeping on top of
// the player collection
type Service struct {
	storage  storage.Storage
	migrator *migrate.Migrator
	logger   *slog.Logger
}

// New creates a player Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		migrator: migrate.New(store, logger),
		logger:   logger,
	}
}

// Register creates a new player with the starting rating and zeroed
// counters. The name must be unique case-insensitively; the pin must be
// exactly four digits.
func (s *Service) Register(ctx context.Context, name, pin string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if pin == "" {
		pin = model.DefaultPin
	}
	if !validPin(pin) {
		return nil, fmt.Errorf("%w: pin must be exactly 4 digits", model.ErrInvalidInput)
	}

	// The uniqueness check runs against the healed collection, so a legacy
	// encoding cannot hide an existing name.
	existing, err := s.migrator.Players(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			return nil, model.ErrDuplicateName
		}
	}

	player := &model.Player{
		ID:     model.PlayerID(uuid.NewString()),
		Name:   name,
		Rating: model.InitialRating,
		Pin:    pin,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)
	return player, nil
}

// Get retrieves a player by id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// GetByName retrieves a player by case-insensitive name
func (s *Service) GetByName(ctx context.Context, name string) (*model.Player, error) {
	players, err := s.migrator.Players(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

// List returns all players, healing the legacy encoding transparently
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.migrator.Players(ctx)
}

// AdjustRating adds delta to the player's rating and increments exactly
// one of wins/losses/draws per the outcome, persisting the whole record as
// a single write. The read-modify-write is not atomic end to end; a
// concurrent adjustment can be lost (accepted for this workload).
func (s *Service) AdjustRating(ctx context.Context, id model.PlayerID, outcome model.Outcome, delta int) (*model.Player, error) {
	if !outcome.Valid() {
		return nil, fmt.Errorf("%w: unknown outcome %q", model.ErrInvalidInput, outcome)
	}

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	player.Rating += delta
	switch outcome {
	case model.OutcomeWin:
		player.Wins++
	case model.OutcomeLoss:
		player.Losses++
	case model.OutcomeDraw:
		player.Draws++
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player rating adjusted",
		slog.String("player_id", string(id)),
		slog.String("outcome", string(outcome)),
		slog.Int("delta", delta),
		slog.Int("rating", player.Rating),
	)
	return player, nil
}

// ClearAll deletes the whole player collection. Gated by the fixed
// administrative pin.
func (s *Service) ClearAll(ctx context.Context, pin string) error {
	if pin != model.AdminPin {
		return model.ErrForbidden
	}
	s.logger.Warn("clearing all players")
	return s.storage.DeleteAllPlayers(ctx)
}

func validPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
