package storage

import (
	"context"

	"github.com/nachoupps/chessy/internal/model"
)

// Storage defines the interface for data persistence.
//
// Per-entity operations (Save/Get/Delete) are atomic with respect to other
// operations on the same entity id. No ordering or atomicity is guaranteed
// across entity ids or across collections. ListPlayers/ListGames are
// best-effort snapshots: they may observe a mix of pre- and post-update
// values for entities mutated concurrently with the read.
//
// List operations return model.ErrWrongEncoding when the collection is
// still stored in the legacy single-blob encoding; callers go through the
// migrate package, which absorbs that condition.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	DeleteAllPlayers(ctx context.Context) error

	// TakeLegacyPlayers reads the legacy whole-collection blob, deletes it,
	// and returns its entities. An empty or undecodable blob yields an
	// empty slice; the blob is deleted regardless.
	TakeLegacyPlayers(ctx context.Context) ([]*model.Player, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	DeleteAllGames(ctx context.Context) error

	// TakeLegacyGames is TakeLegacyPlayers for the games collection.
	TakeLegacyGames(ctx context.Context) ([]*model.Game, error)
}
