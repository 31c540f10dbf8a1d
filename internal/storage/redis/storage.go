package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
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
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeyspace(cfg.KeyPrefix),
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
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	s.queuePlayer(ctx, pipe, player, data)
	_, err = pipe.Exec(ctx)
	return err
}

// queuePlayer adds the player write and its index entry to a pipeline.
// ZADD NX keeps the original position when a player is saved again.
func (s *Storage) queuePlayer(ctx context.Context, pipe redis.Pipeliner, player *model.Player, data []byte) {
	pipe.Set(ctx, s.keys.player(player.ID), data, 0)
	pipe.ZAddNX(ctx, s.keys.playerIndex(), redis.Z{
		Score:  float64(player.CreatedAt.UnixMilli()),
		Member: string(player.ID),
	})
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	// Ties on creation time fall back to member order, and IDs sort by creation
	ids, err := s.client.ZRange(ctx, s.keys.playerIndex(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keys.player(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between ZRANGE and MGET
		}
		var player model.Player
		if err := json.Unmarshal([]byte(str), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.keys.player(id))
	pipe.ZRem(ctx, s.keys.playerIndex(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Transaction operations

func (s *Storage) AppendTransaction(ctx context.Context, tx *model.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return s.client.LPush(ctx, s.keys.transactions(), data).Err()
}

func (s *Storage) ListTransactions(ctx context.Context, limit int) ([]*model.Transaction, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	values, err := s.client.LRange(ctx, s.keys.transactions(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	txs := make([]*model.Transaction, 0, len(values))
	for _, val := range values {
		var tx model.Transaction
		if err := json.Unmarshal([]byte(val), &tx); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}

// CommitTransaction writes back an existing player and records the transaction.
// The player key is watched so a delete or reset landing mid-commit aborts it.
func (s *Storage) CommitTransaction(ctx context.Context, player *model.Player, tx *model.Transaction) error {
	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}
	txData, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	key := s.keys.player(player.ID)
	err = s.client.Watch(ctx, func(rtx *redis.Tx) error {
		n, err := rtx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrPlayerNotFound
		}
		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, playerData, 0)
			pipe.LPush(ctx, s.keys.transactions(), txData)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("player %s changed during commit: %w", player.ID, err)
	}
	return err
}

// Session settings

func (s *Storage) GetActiveCurrency(ctx context.Context) (model.CurrencyCode, error) {
	code, err := s.client.Get(ctx, s.keys.activeCurrency()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return model.CurrencyCode(code), nil
}

func (s *Storage) SetActiveCurrency(ctx context.Context, code model.CurrencyCode) error {
	return s.client.Set(ctx, s.keys.activeCurrency(), string(code), 0).Err()
}

func (s *Storage) Reset(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.keys.pattern(), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
