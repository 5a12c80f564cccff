// internal/storage/redisstore/codec.go
package redisstore

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// ErrDiscriminatorMismatch is returned when a payload belongs to another account type.
var ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")

// Account payloads follow the Anchor layout: 8-byte discriminator followed by
// the borsh-encoded fields in declaration order.
var (
	configDiscriminator = discriminator("account:CurveConfiguration")
	poolDiscriminator   = discriminator("account:LiquidityPool")
	tradeDiscriminator  = discriminator("event:TradeEvent")
)

func discriminator(name string) [8]byte {
	var d [8]byte
	sum := sha256.Sum256([]byte(name))
	copy(d[:], sum[:8])
	return d
}

type configAccount struct {
	FeePercentage       uint64
	CreationFees        uint64
	Proportion          float64
	FeeCollector        solana.PublicKey
	FeeSolCollector     solana.PublicKey
	ExchangeTokenMint   solana.PublicKey
	Admin               solana.PublicKey
	InitialTokenForPool uint64
	IsSolFee            bool
	IsLockdown          bool
	Bump                uint8
}

// 8 + 8 + 8 + 8 + 32*4 + 8 + 1 + 1 + 1
const configAccountSize = 171

type poolAccount struct {
	Creator         solana.PublicKey
	Token           solana.PublicKey
	ExchangeToken   solana.PublicKey
	TotalSupply     uint64
	ReserveToken    uint64
	ReserveExchange uint64
	Bump            uint8
}

// 8 + 32*3 + 8*3 + 1
const poolAccountSize = 129

type tradeEvent struct {
	ID                    string
	Pool                  solana.PublicKey
	Mint                  solana.PublicKey
	Trader                solana.PublicKey
	IsBuy                 bool
	AmountIn              uint64
	AmountOut             uint64
	Fee                   uint64
	ReserveTokenBefore    uint64
	ReserveTokenAfter     uint64
	ReserveExchangeBefore uint64
	ReserveExchangeAfter  uint64
	Timestamp             int64
}

func encode(d [8]byte, v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(d[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(d [8]byte, data []byte, v interface{}) error {
	if len(data) < 8 || !bytes.Equal(data[:8], d[:]) {
		return ErrDiscriminatorMismatch
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(v); err != nil {
		return fmt.Errorf("failed to decode account: %w", err)
	}
	return nil
}

func encodeConfig(c *types.CurveConfiguration) ([]byte, error) {
	return encode(configDiscriminator, &configAccount{
		FeePercentage:       c.FeePercentage,
		CreationFees:        c.CreationFees,
		Proportion:          c.Proportion,
		FeeCollector:        c.FeeCollector,
		FeeSolCollector:     c.FeeSolCollector,
		ExchangeTokenMint:   c.ExchangeTokenMint,
		Admin:               c.Admin,
		InitialTokenForPool: c.InitialTokenForPool,
		IsSolFee:            c.IsSolFee,
		IsLockdown:          c.IsLockdown,
		Bump:                c.Bump,
	})
}

func decodeConfig(data []byte) (*types.CurveConfiguration, error) {
	var acc configAccount
	if err := decode(configDiscriminator, data, &acc); err != nil {
		return nil, err
	}
	return &types.CurveConfiguration{
		FeePercentage:       acc.FeePercentage,
		CreationFees:        acc.CreationFees,
		Proportion:          acc.Proportion,
		FeeCollector:        acc.FeeCollector,
		FeeSolCollector:     acc.FeeSolCollector,
		ExchangeTokenMint:   acc.ExchangeTokenMint,
		Admin:               acc.Admin,
		InitialTokenForPool: acc.InitialTokenForPool,
		IsSolFee:            acc.IsSolFee,
		IsLockdown:          acc.IsLockdown,
		Bump:                acc.Bump,
	}, nil
}

func encodePool(p *types.LiquidityPool) ([]byte, error) {
	return encode(poolDiscriminator, &poolAccount{
		Creator:         p.Creator,
		Token:           p.Token,
		ExchangeToken:   p.ExchangeToken,
		TotalSupply:     p.TotalSupply,
		ReserveToken:    p.ReserveToken,
		ReserveExchange: p.ReserveExchange,
		Bump:            p.Bump,
	})
}

// decodePool restores a pool; the address is the storage key, not part of the layout.
func decodePool(address solana.PublicKey, data []byte) (*types.LiquidityPool, error) {
	var acc poolAccount
	if err := decode(poolDiscriminator, data, &acc); err != nil {
		return nil, err
	}
	return &types.LiquidityPool{
		Address:         address,
		Creator:         acc.Creator,
		Token:           acc.Token,
		ExchangeToken:   acc.ExchangeToken,
		TotalSupply:     acc.TotalSupply,
		ReserveToken:    acc.ReserveToken,
		ReserveExchange: acc.ReserveExchange,
		Bump:            acc.Bump,
	}, nil
}

func encodeTrade(r *types.TradeRecord) ([]byte, error) {
	return encode(tradeDiscriminator, &tradeEvent{
		ID:                    r.ID,
		Pool:                  r.Pool,
		Mint:                  r.Mint,
		Trader:                r.Trader,
		IsBuy:                 r.IsBuy,
		AmountIn:              r.AmountIn,
		AmountOut:             r.AmountOut,
		Fee:                   r.Fee,
		ReserveTokenBefore:    r.ReserveTokenBefore,
		ReserveTokenAfter:     r.ReserveTokenAfter,
		ReserveExchangeBefore: r.ReserveExchangeBefore,
		ReserveExchangeAfter:  r.ReserveExchangeAfter,
		Timestamp:             r.Timestamp.UnixNano(),
	})
}

func decodeTrade(data []byte) (*types.TradeRecord, error) {
	var ev tradeEvent
	if err := decode(tradeDiscriminator, data, &ev); err != nil {
		return nil, err
	}
	return &types.TradeRecord{
		ID:                    ev.ID,
		Pool:                  ev.Pool,
		Mint:                  ev.Mint,
		Trader:                ev.Trader,
		IsBuy:                 ev.IsBuy,
		AmountIn:              ev.AmountIn,
		AmountOut:             ev.AmountOut,
		Fee:                   ev.Fee,
		ReserveTokenBefore:    ev.ReserveTokenBefore,
		ReserveTokenAfter:     ev.ReserveTokenAfter,
		ReserveExchangeBefore: ev.ReserveExchangeBefore,
		ReserveExchangeAfter:  ev.ReserveExchangeAfter,
		Timestamp:             time.Unix(0, ev.Timestamp).UTC(),
	}, nil
}
