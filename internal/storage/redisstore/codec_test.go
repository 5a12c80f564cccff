package redisstore

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

func TestConfigLayout(t *testing.T) {
	cfg := &types.CurveConfiguration{
		FeePercentage:       100,
		CreationFees:        20_000_000,
		Proportion:          1280,
		FeeCollector:        solana.NewWallet().PublicKey(),
		FeeSolCollector:     solana.NewWallet().PublicKey(),
		ExchangeTokenMint:   solana.NewWallet().PublicKey(),
		Admin:               solana.NewWallet().PublicKey(),
		InitialTokenForPool: 1_000_000_000,
		IsSolFee:            true,
		Bump:                254,
	}

	data, err := encodeConfig(cfg)
	require.NoError(t, err)
	assert.Len(t, data, configAccountSize)
	assert.Equal(t, configDiscriminator[:], data[:8])
	// fee_percentage сразу за дискриминатором, little-endian
	assert.Equal(t, []byte{100, 0, 0, 0, 0, 0, 0, 0}, data[8:16])

	got, err := decodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPoolLayout(t *testing.T) {
	pool := &types.LiquidityPool{
		Address:         solana.NewWallet().PublicKey(),
		Creator:         solana.NewWallet().PublicKey(),
		Token:           solana.NewWallet().PublicKey(),
		ExchangeToken:   solana.NewWallet().PublicKey(),
		TotalSupply:     1e18,
		ReserveToken:    1e18 - 35777087639996640,
		ReserveExchange: 2e9,
		Bump:            253,
	}

	data, err := encodePool(pool)
	require.NoError(t, err)
	assert.Len(t, data, poolAccountSize)

	got, err := decodePool(pool.Address, data)
	require.NoError(t, err)
	assert.Equal(t, pool, got)

	_, err = decodeConfig(data)
	assert.ErrorIs(t, err, ErrDiscriminatorMismatch)
	_, err = decodePool(pool.Address, data[:4])
	assert.ErrorIs(t, err, ErrDiscriminatorMismatch)
}

func TestTradeEncoding(t *testing.T) {
	rec := &types.TradeRecord{
		ID:        "5f1b0d1e-4a51-4b8e-9a7e-0f3b8f0f7c11",
		Pool:      solana.NewWallet().PublicKey(),
		Mint:      solana.NewWallet().PublicKey(),
		Trader:    solana.NewWallet().PublicKey(),
		IsBuy:     true,
		AmountIn:  1_000_000_000,
		AmountOut: 35777087639996640,
		Timestamp: time.Unix(1_700_000_000, 42).UTC(),
	}

	data, err := encodeTrade(rec)
	require.NoError(t, err)
	got, err := decodeTrade(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDiscriminator(t *testing.T) {
	// sha256("account:LiquidityPool")[:8] отличается от конфигурации
	assert.NotEqual(t, configDiscriminator, poolDiscriminator)
	assert.Equal(t, discriminator("account:LiquidityPool"), poolDiscriminator)
}
