package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	games   map[model.GameID]*model.Game

	// Raw legacy blobs. While non-nil, the corresponding List call reports
	// model.ErrWrongEncoding, mirroring a collection that has not been
	// migrated yet.
	legacyPlayers []byte
	legacyGames   []byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
		games:   make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// SeedLegacyPlayers stores a raw legacy player blob, putting the players
// collection into the pre-migration encoding. Test helper.
func (s *Storage) SeedLegacyPlayers(blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacyPlayers = blob
}

// SeedLegacyGames is SeedLegacyPlayers for the games collection
func (s *Storage) SeedLegacyGames(blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacyGames = blob
}

// HasLegacyPlayers reports whether the legacy player blob still exists
func (s *Storage) HasLegacyPlayers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legacyPlayers != nil
}

// HasLegacyGames reports whether the legacy game blob still exists
func (s *Storage) HasLegacyGames() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legacyGames != nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.legacyPlayers != nil {
		return nil, model.ErrWrongEncoding
	}
	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		p := *player
		players = append(players, &p)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player)
	s.legacyPlayers = nil
	return nil
}

func (s *Storage) TakeLegacyPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob := s.legacyPlayers
	s.legacyPlayers = nil
	return decodeLegacy[model.Player](blob), nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *game
	s.games[game.ID] = &g
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.legacyGames != nil {
		return nil, model.ErrWrongEncoding
	}
	games := make([]*model.Game, 0, len(s.games))
	for _, game := range s.games {
		g := *game
		games = append(games, &g)
	}
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) DeleteAllGames(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = make(map[model.GameID]*model.Game)
	s.legacyGames = nil
	return nil
}

func (s *Storage) TakeLegacyGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob := s.legacyGames
	s.legacyGames = nil
	return decodeLegacy[model.Game](blob), nil
}

// decodeLegacy decodes a legacy JSON-array blob. Invalid or empty blobs
// decode to an empty slice; migration discards them.
func decodeLegacy[T any](blob []byte) []*T {
	if len(blob) == 0 {
		return []*T{}
	}
	var entities []*T
	if err := json.Unmarshal(blob, &entities); err != nil {
		return []*T{}
	}
	return entities
}
