package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nachoupps/chessy/internal/model"
	"github.com/nachoupps/chessy/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return s.saveEntity(ctx, playersKey(), string(player.ID), player)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	player, err := getEntity[model.Player](ctx, s.client, playersKey(), string(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return listEntities[model.Player](ctx, s.client, playersKey())
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.HDel(ctx, playersKey(), string(id)).Err()
}

func (s *Storage) DeleteAllPlayers(ctx context.Context) error {
	return s.client.Del(ctx, playersKey()).Err()
}

func (s *Storage) TakeLegacyPlayers(ctx context.Context) ([]*model.Player, error) {
	return takeLegacy[model.Player](ctx, s.client, playersKey())
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.saveEntity(ctx, gamesKey(), string(game.ID), game)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	game, err := getEntity[model.Game](ctx, s.client, gamesKey(), string(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	return listEntities[model.Game](ctx, s.client, gamesKey())
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.client.HDel(ctx, gamesKey(), string(id)).Err()
}

func (s *Storage) DeleteAllGames(ctx context.Context) error {
	return s.client.Del(ctx, gamesKey()).Err()
}

func (s *Storage) TakeLegacyGames(ctx context.Context) ([]*model.Game, error) {
	return takeLegacy[model.Game](ctx, s.client, gamesKey())
}

// Shared helpers

func (s *Storage) saveEntity(ctx context.Context, key, field string, entity any) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, key, field, data).Err()
}

func getEntity[T any](ctx context.Context, client *redis.Client, key, field string) (*T, error) {
	data, err := client.HGet(ctx, key, field).Bytes()
	if err != nil {
		return nil, err
	}
	var entity T
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// listEntities reads the whole collection hash. A key still holding the
// legacy string encoding is reported as model.ErrWrongEncoding via a TYPE
// check rather than by inspecting a WRONGTYPE error message.
func listEntities[T any](ctx context.Context, client *redis.Client, key string) ([]*T, error) {
	keyType, err := client.Type(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if keyType != "hash" && keyType != "none" {
		return nil, model.ErrWrongEncoding
	}

	values, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(values))
	for _, raw := range values {
		var entity T
		if err := json.Unmarshal([]byte(raw), &entity); err != nil {
			continue // Skip invalid data
		}
		entities = append(entities, &entity)
	}
	return entities, nil
}

// takeLegacy reads and deletes the legacy whole-collection blob. Empty or
// undecodable blobs yield an empty slice; the key is deleted regardless.
func takeLegacy[T any](ctx context.Context, client *redis.Client, key string) ([]*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*T{}, nil
		}
		return nil, err
	}

	if err := client.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	var entities []*T
	if err := json.Unmarshal(data, &entities); err != nil {
		return []*T{}, nil
	}
	return entities, nil
}
