package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
)

func TestCreatePool(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(f.ctx, f.admin, f.params(100))
	require.NoError(t, err)

	token := solana.NewWallet().PublicKey()
	f.ledger.RegisterMint(token, 6)

	pool, err := f.engine.CreatePool(f.ctx, f.creator, token)
	require.NoError(t, err)

	addr, bump, err := PoolAddress(f.engine.ProgramID(), token, solana.SolMint)
	require.NoError(t, err)
	assert.Equal(t, addr, pool.Address)
	assert.Equal(t, bump, pool.Bump)
	assert.Equal(t, f.creator, pool.Creator)
	assert.Equal(t, solana.SolMint, pool.ExchangeToken)
	assert.False(t, pool.Seeded())

	_, err = f.engine.CreatePool(f.ctx, f.trader, token)
	assert.ErrorIs(t, err, curve.ErrPoolAlreadyExists)

	_, err = f.engine.CreatePool(f.ctx, f.creator, solana.SolMint)
	assert.ErrorIs(t, err, curve.ErrDuplicateTokenNotAllowed)

	_, err = f.engine.CreatePool(f.ctx, f.creator, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, curve.ErrInvalidInput)

	pools, err := f.engine.Pools(f.ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 1)

	created, ok := f.events.last().(*events.PoolCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, pool.Address, created.Pool)
}

func TestAddLiquidity(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(f.ctx, f.admin, f.params(100))
	require.NoError(t, err)

	token := solana.NewWallet().PublicKey()
	f.ledger.RegisterMint(token, 6)
	require.NoError(t, f.ledger.Credit(token, f.creator, 700_000_000_000_000))
	f.fund(t, f.creator, curve.Unit)

	pool, err := f.engine.CreatePool(f.ctx, f.creator, token)
	require.NoError(t, err)

	_, err = f.engine.AddLiquidity(f.ctx, f.trader, pool.Address)
	assert.ErrorIs(t, err, curve.ErrNotCreator)

	seeded, err := f.engine.AddLiquidity(f.ctx, f.creator, pool.Address)
	require.NoError(t, err)

	// 1e9 * 10^6
	assert.Equal(t, uint64(1_000_000_000_000_000), seeded.TotalSupply)
	assert.Equal(t, uint64(700_000_000_000_000), seeded.ReserveToken)
	assert.Equal(t, uint64(curve.Unit), seeded.ReserveExchange)

	assert.Zero(t, f.balance(t, token, f.creator))
	assert.Zero(t, f.balance(t, solana.SolMint, f.creator))
	assert.Equal(t, uint64(700_000_000_000_000), f.balance(t, token, pool.Address))
	assert.Equal(t, uint64(curve.Unit), f.balance(t, solana.SolMint, pool.Address))

	_, err = f.engine.AddLiquidity(f.ctx, f.creator, pool.Address)
	assert.ErrorIs(t, err, curve.ErrFailedToAddLiquidity)

	added, ok := f.events.last().(*events.LiquidityAddedEvent)
	require.True(t, ok)
	assert.Equal(t, seeded.TotalSupply, added.TotalSupply)
	assert.Equal(t, f.creator, added.Provider)
}

func TestAddLiquidity_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Initialize(f.ctx, f.admin, f.params(100))
	require.NoError(t, err)

	token := solana.NewWallet().PublicKey()
	f.ledger.RegisterMint(token, 0)

	pool, err := f.engine.CreatePool(f.ctx, f.creator, token)
	require.NoError(t, err)

	_, err = f.engine.AddLiquidity(f.ctx, f.creator, pool.Address)
	assert.ErrorIs(t, err, curve.ErrInvalidAmount, "creator holds nothing")

	// при 0 знаков виртуальное предложение 1e9
	require.NoError(t, f.ledger.Credit(token, f.creator, curve.VirtualSupplyUnits+1))
	_, err = f.engine.AddLiquidity(f.ctx, f.creator, pool.Address)
	assert.ErrorIs(t, err, curve.ErrInvalidInput)

	wide := solana.NewWallet().PublicKey()
	f.ledger.RegisterMint(wide, 11)
	widePool, err := f.engine.CreatePool(f.ctx, f.creator, wide)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Credit(wide, f.creator, 1))
	_, err = f.engine.AddLiquidity(f.ctx, f.creator, widePool.Address)
	assert.ErrorIs(t, err, curve.ErrInvalidDecimalValue)

	_, err = f.engine.AddLiquidity(f.ctx, f.creator, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, curve.ErrPoolNotFound)
}

func TestRemoveLiquidity(t *testing.T) {
	f := newFixture(t)
	pool := f.seededPool(t, 100)
	f.fund(t, f.trader, 5*curve.Unit)

	_, err := f.engine.Buy(f.ctx, f.trader, pool.Address, 5*curve.Unit, 0)
	require.NoError(t, err)

	vaultToken := f.balance(t, pool.Token, pool.Address)
	vaultExchange := f.balance(t, solana.SolMint, pool.Address)

	_, err = f.engine.RemoveLiquidity(f.ctx, f.creator, pool.Address)
	assert.ErrorIs(t, err, curve.ErrInvalidAuthority, "creator is not admin")

	drained, err := f.engine.RemoveLiquidity(f.ctx, f.admin, pool.Address)
	require.NoError(t, err)
	assert.Zero(t, drained.TotalSupply)
	assert.Zero(t, drained.ReserveToken)
	assert.Zero(t, drained.ReserveExchange)

	assert.Zero(t, f.balance(t, pool.Token, pool.Address))
	assert.Zero(t, f.balance(t, solana.SolMint, pool.Address))
	assert.Equal(t, vaultToken, f.balance(t, pool.Token, f.admin))
	assert.Equal(t, vaultExchange, f.balance(t, solana.SolMint, f.admin))

	removed, ok := f.events.last().(*events.LiquidityRemovedEvent)
	require.True(t, ok)
	assert.Equal(t, vaultExchange, removed.ExchangeAmount)

	_, err = f.engine.RemoveLiquidity(f.ctx, f.admin, pool.Address)
	assert.ErrorIs(t, err, curve.ErrFailedToRemoveLiquidity)

	_, err = f.engine.Buy(f.ctx, f.trader, pool.Address, curve.Unit, 0)
	assert.ErrorIs(t, err, curve.ErrNotEnoughTokenInVault)
}
