// internal/storage/redisstore/redis.go
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// Config represents Redis client configuration options.
type Config struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	ConnectTries uint
}

// Store keeps accounts in Redis using their on-chain binary layout.
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

var _ storage.Store = (*Store)(nil)

// New connects to Redis and waits until it answers PING.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	logger = logger.Named("redis")
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "curve"
	}
	if cfg.ConnectTries == 0 {
		cfg.ConnectTries = 5
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	notify := func(err error, d time.Duration) {
		logger.Warn("Redis is not ready, retrying", zap.String("addr", cfg.Addr), zap.Error(err), zap.Duration("backoff", d))
	}
	_, err := backoff.Retry(ctx, func() (string, error) {
		return client.Ping(ctx).Result()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(cfg.ConnectTries),
		backoff.WithNotify(notify))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewWithClient(client, cfg.KeyPrefix, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string, logger *zap.Logger) *Store {
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) configKey() string { return s.prefix + ":config" }

func (s *Store) poolKey(address solana.PublicKey) string {
	return fmt.Sprintf("%s:pool:%s", s.prefix, address)
}

func (s *Store) poolsKey() string { return s.prefix + ":pools" }

func (s *Store) tradesKey(pool solana.PublicKey) string {
	return fmt.Sprintf("%s:trades:%s", s.prefix, pool)
}

func (s *Store) GetConfig(ctx context.Context) (*types.CurveConfiguration, error) {
	data, err := s.client.Get(ctx, s.configKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeConfig(data)
}

func (s *Store) SaveConfig(ctx context.Context, cfg *types.CurveConfiguration) error {
	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.configKey(), data, 0).Err()
}

func (s *Store) GetPool(ctx context.Context, address solana.PublicKey) (*types.LiquidityPool, error) {
	data, err := s.client.Get(ctx, s.poolKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePool(address, data)
}

func (s *Store) SavePool(ctx context.Context, pool *types.LiquidityPool) error {
	data, err := encodePool(pool)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.poolKey(pool.Address), data, 0)
		pipe.SAdd(ctx, s.poolsKey(), pool.Address.String())
		return nil
	})
	return err
}

func (s *Store) ListPools(ctx context.Context) ([]*types.LiquidityPool, error) {
	members, err := s.client.SMembers(ctx, s.poolsKey()).Result()
	if err != nil {
		return nil, err
	}

	pools := make([]*types.LiquidityPool, 0, len(members))
	for _, m := range members {
		address, err := solana.PublicKeyFromBase58(m)
		if err != nil {
			s.logger.Warn("Skipping malformed pool key", zap.String("member", m), zap.Error(err))
			continue
		}
		pool, err := s.GetPool(ctx, address)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	sortPools(pools)
	return pools, nil
}

func (s *Store) SaveTrade(ctx context.Context, trade *types.TradeRecord) error {
	data, err := encodeTrade(trade)
	if err != nil {
		return err
	}
	return s.client.LPush(ctx, s.tradesKey(trade.Pool), data).Err()
}

func (s *Store) ListTrades(ctx context.Context, pool solana.PublicKey, limit, offset int) ([]*types.TradeRecord, error) {
	limit, offset = storage.NormalizePage(limit, offset)

	items, err := s.client.LRange(ctx, s.tradesKey(pool), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*types.TradeRecord, 0, len(items))
	for _, item := range items {
		rec, err := decodeTrade([]byte(item))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) RunMigrations(_ context.Context) error { return nil }

func (s *Store) Close() error {
	return s.client.Close()
}

func sortPools(pools []*types.LiquidityPool) {
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].Address.String() < pools[j].Address.String()
	})
}
