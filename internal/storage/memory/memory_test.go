package memory

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

func TestStore_ConfigIsCopied(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetConfig(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	cfg := &types.CurveConfiguration{FeePercentage: 100, Proportion: 1280}
	require.NoError(t, s.SaveConfig(ctx, cfg))
	cfg.FeePercentage = 9999

	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got.FeePercentage)
}

func TestStore_Pools(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	addr := solana.NewWallet().PublicKey()

	_, err := s.GetPool(ctx, addr)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SavePool(ctx, &types.LiquidityPool{Address: addr, ReserveToken: 5}))
	require.NoError(t, s.SavePool(ctx, &types.LiquidityPool{Address: solana.NewWallet().PublicKey()}))

	got, err := s.GetPool(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.ReserveToken)

	pools, err := s.ListPools(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 2)
	assert.Less(t, pools[0].Address.String(), pools[1].Address.String())
}

func TestStore_TradesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	pool := solana.NewWallet().PublicKey()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.SaveTrade(ctx, &types.TradeRecord{
			Pool:      pool,
			AmountIn:  uint64(i),
			Timestamp: time.Now(),
		}))
	}

	page, err := s.ListTrades(ctx, pool, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(4), page[0].AmountIn)
	assert.Equal(t, uint64(3), page[1].AmountIn)

	all, err := s.ListTrades(ctx, pool, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	empty, err := s.ListTrades(ctx, pool, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
