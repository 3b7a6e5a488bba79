// Package migrate self-heals collections left in the legacy
// whole-collection-as-single-blob encoding, rewriting them into the
// per-entity keyed encoding the first time they are read.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/storage"
)

// Migrator wraps collection reads with transparent legacy-encoding upgrade
type Migrator struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a Migrator over the given storage
func New(store storage.Storage, logger *slog.Logger) *Migrator {
	return &Migrator{
		storage: store,
		logger:  logger,
	}
}

// Players lists the players collection, migrating it out of the legacy
// encoding if needed. Idempotent: after a successful migration the
// wrong-encoding condition no longer occurs.
func (m *Migrator) Players(ctx context.Context) ([]*model.Player, error) {
	players, err := m.storage.ListPlayers(ctx)
	if err == nil {
		return players, nil
	}
	if !errors.Is(err, model.ErrWrongEncoding) {
		return nil, err
	}

	legacy, err := m.storage.TakeLegacyPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrating players collection: %w", err)
	}

	for _, player := range legacy {
		if err := m.storage.SavePlayer(ctx, player); err != nil {
			// The legacy blob is already gone at this point; entities not
			// yet re-inserted are lost. Accepted weakness per the design.
			return nil, fmt.Errorf("migrating players collection: %w", err)
		}
	}

	m.logger.Info("migrated players collection from legacy encoding",
		slog.Int("count", len(legacy)),
	)
	return legacy, nil
}

// Games is Players for the games collection
func (m *Migrator) Games(ctx context.Context) ([]*model.Game, error) {
	games, err := m.storage.ListGames(ctx)
	if err == nil {
		return games, nil
	}
	if !errors.Is(err, model.ErrWrongEncoding) {
		return nil, err
	}

	legacy, err := m.storage.TakeLegacyGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrating games collection: %w", err)
	}

	for _, game := range legacy {
		if err := m.storage.SaveGame(ctx, game); err != nil {
			return nil, fmt.Errorf("migrating games collection: %w", err)
		}
	}

	m.logger.Info("migrated games collection from legacy encoding",
		slog.Int("count", len(legacy)),
	)
	return legacy, nil
}
