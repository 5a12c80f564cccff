// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// Store keeps everything in process memory. Values are copied in and out so
// callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	config *types.CurveConfiguration
	pools  map[solana.PublicKey]types.LiquidityPool
	trades map[solana.PublicKey][]types.TradeRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		pools:  make(map[solana.PublicKey]types.LiquidityPool),
		trades: make(map[solana.PublicKey][]types.TradeRecord),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) GetConfig(_ context.Context) (*types.CurveConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, storage.ErrNotFound
	}
	cfg := *s.config
	return &cfg, nil
}

func (s *Store) SaveConfig(_ context.Context, cfg *types.CurveConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *cfg
	s.config = &c
	return nil
}

func (s *Store) GetPool(_ context.Context, address solana.PublicKey) (*types.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[address]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) SavePool(_ context.Context, pool *types.LiquidityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools[pool.Address] = *pool
	return nil
}

func (s *Store) ListPools(_ context.Context) ([]*types.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.LiquidityPool, 0, len(s.pools))
	for _, p := range s.pools {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.String() < out[j].Address.String()
	})
	return out, nil
}

func (s *Store) SaveTrade(_ context.Context, trade *types.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[trade.Pool] = append(s.trades[trade.Pool], *trade)
	return nil
}

func (s *Store) ListTrades(_ context.Context, pool solana.PublicKey, limit, offset int) ([]*types.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit, offset = storage.NormalizePage(limit, offset)
	all := s.trades[pool]

	out := make([]*types.TradeRecord, 0, limit)
	for i := len(all) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		r := all[i]
		out = append(out, &r)
	}
	return out, nil
}

func (s *Store) RunMigrations(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
