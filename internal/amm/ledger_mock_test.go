package amm

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/memory"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Apply(ctx context.Context, transfers ...ledger.Transfer) error {
	args := m.Called(ctx, transfers)
	return args.Error(0)
}

func (m *mockLedger) Balance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error) {
	args := m.Called(ctx, mint, owner)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockLedger) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	args := m.Called(ctx, mint)
	return args.Get(0).(uint8), args.Error(1)
}

func (m *mockLedger) Mint(ctx context.Context, mint, to solana.PublicKey, amount uint64, decimals uint8) error {
	args := m.Called(ctx, mint, to, amount, decimals)
	return args.Error(0)
}

// seedStore writes a configuration and a fresh seeded pool straight into the store.
func seedStore(t *testing.T, store *failingStore) (*types.CurveConfiguration, *types.LiquidityPool) {
	t.Helper()
	ctx := context.Background()

	cfg := &types.CurveConfiguration{
		FeePercentage:       100,
		Proportion:          curve.DefaultProportion,
		FeeCollector:        solana.NewWallet().PublicKey(),
		FeeSolCollector:     solana.NewWallet().PublicKey(),
		ExchangeTokenMint:   solana.SolMint,
		Admin:               solana.NewWallet().PublicKey(),
		InitialTokenForPool: curve.Unit,
	}
	pool := &types.LiquidityPool{
		Address:         solana.NewWallet().PublicKey(),
		Creator:         solana.NewWallet().PublicKey(),
		Token:           solana.NewWallet().PublicKey(),
		ExchangeToken:   solana.SolMint,
		TotalSupply:     testSupply,
		ReserveToken:    testSupply,
		ReserveExchange: curve.Unit,
	}
	require.NoError(t, store.SaveConfig(ctx, cfg))
	require.NoError(t, store.SavePool(ctx, pool))
	return cfg, pool
}

func TestBuy_LedgerFailureLeavesPoolUntouched(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.NewStore()}
	_, pool := seedStore(t, store)

	l := &mockLedger{}
	l.On("Apply", mock.Anything, mock.Anything).Return(errors.New("insufficient funds")).Once()

	pub := &publisherStub{}
	engine, err := NewEngine(store, l, pub, zap.NewNop())
	require.NoError(t, err)

	_, err = engine.Buy(ctx, solana.NewWallet().PublicKey(), pool.Address, curve.Unit, 0)
	require.Error(t, err)

	stored, err := store.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	assert.Equal(t, pool.State(), stored.State())
	assert.Empty(t, pub.types())

	trades, err := store.ListTrades(ctx, pool.Address, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, trades)
	l.AssertExpectations(t)
}

func TestSell_SaveFailureAppliesReversedBatch(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.NewStore()}
	cfg, pool := seedStore(t, store)

	// пул после покупки 1 единицы
	const sold = 35777087639996640
	pool.ReserveToken -= sold
	pool.ReserveExchange += curve.Unit
	require.NoError(t, store.SavePool(ctx, pool))
	store.failSave = true

	trader := solana.NewWallet().PublicKey()
	var forward []ledger.Transfer

	l := &mockLedger{}
	l.On("Apply", mock.Anything, mock.MatchedBy(func(ts []ledger.Transfer) bool {
		return len(ts) == 3 && ts[0].From == trader
	})).Run(func(args mock.Arguments) {
		forward = args.Get(1).([]ledger.Transfer)
	}).Return(nil).Once()
	l.On("Apply", mock.Anything, mock.MatchedBy(func(ts []ledger.Transfer) bool {
		return len(ts) == 3 && ts[2].To == trader
	})).Return(nil).Once()

	engine, err := NewEngine(store, l, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = engine.Sell(ctx, trader, pool.Address, sold, 0)
	require.Error(t, err)
	l.AssertExpectations(t)

	require.Len(t, forward, 3)
	assert.Equal(t, pool.Token, forward[0].Mint)
	assert.Equal(t, cfg.FeeCollector, forward[2].To, "fee leaves the pool last")

	reversed := l.Calls[1].Arguments.Get(1).([]ledger.Transfer)
	assert.Equal(t, ledger.Reverse(forward), reversed)
}
