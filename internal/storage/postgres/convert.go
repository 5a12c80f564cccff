// internal/storage/postgres/convert.go
package postgres

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/storage/models"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

var configColumns = []string{
	"fee_percentage", "creation_fees", "proportion", "fee_collector",
	"fee_sol_collector", "exchange_token_mint", "admin", "initial_token_for_pool",
	"is_sol_fee", "is_lockdown", "bump", "updated_at",
}

// keys разбирает набор base58-адресов; первая ошибка прерывает разбор
func keys(dst []*solana.PublicKey, src ...string) error {
	for i, s := range src {
		k, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return fmt.Errorf("invalid public key %q: %w", s, err)
		}
		*dst[i] = k
	}
	return nil
}

func configToModel(c *types.CurveConfiguration) *models.CurveConfiguration {
	return &models.CurveConfiguration{
		Key:                 configKey,
		FeePercentage:       c.FeePercentage,
		CreationFees:        c.CreationFees,
		Proportion:          c.Proportion,
		FeeCollector:        c.FeeCollector.String(),
		FeeSolCollector:     c.FeeSolCollector.String(),
		ExchangeTokenMint:   c.ExchangeTokenMint.String(),
		Admin:               c.Admin.String(),
		InitialTokenForPool: c.InitialTokenForPool,
		IsSolFee:            c.IsSolFee,
		IsLockdown:          c.IsLockdown,
		Bump:                c.Bump,
	}
}

func configFromModel(m *models.CurveConfiguration) (*types.CurveConfiguration, error) {
	c := &types.CurveConfiguration{
		FeePercentage:       m.FeePercentage,
		CreationFees:        m.CreationFees,
		Proportion:          m.Proportion,
		InitialTokenForPool: m.InitialTokenForPool,
		IsSolFee:            m.IsSolFee,
		IsLockdown:          m.IsLockdown,
		Bump:                m.Bump,
	}
	err := keys(
		[]*solana.PublicKey{&c.FeeCollector, &c.FeeSolCollector, &c.ExchangeTokenMint, &c.Admin},
		m.FeeCollector, m.FeeSolCollector, m.ExchangeTokenMint, m.Admin,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func poolToModel(p *types.LiquidityPool) *models.LiquidityPool {
	return &models.LiquidityPool{
		Address:         p.Address.String(),
		Creator:         p.Creator.String(),
		Token:           p.Token.String(),
		ExchangeToken:   p.ExchangeToken.String(),
		TotalSupply:     p.TotalSupply,
		ReserveToken:    p.ReserveToken,
		ReserveExchange: p.ReserveExchange,
		Bump:            p.Bump,
	}
}

func poolFromModel(m *models.LiquidityPool) (*types.LiquidityPool, error) {
	p := &types.LiquidityPool{
		TotalSupply:     m.TotalSupply,
		ReserveToken:    m.ReserveToken,
		ReserveExchange: m.ReserveExchange,
		Bump:            m.Bump,
	}
	err := keys(
		[]*solana.PublicKey{&p.Address, &p.Creator, &p.Token, &p.ExchangeToken},
		m.Address, m.Creator, m.Token, m.ExchangeToken,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func tradeToModel(r *types.TradeRecord) *models.Trade {
	return &models.Trade{
		TradeID:               r.ID,
		Pool:                  r.Pool.String(),
		Mint:                  r.Mint.String(),
		Trader:                r.Trader.String(),
		IsBuy:                 r.IsBuy,
		AmountIn:              r.AmountIn,
		AmountOut:             r.AmountOut,
		Fee:                   r.Fee,
		ReserveTokenBefore:    r.ReserveTokenBefore,
		ReserveTokenAfter:     r.ReserveTokenAfter,
		ReserveExchangeBefore: r.ReserveExchangeBefore,
		ReserveExchangeAfter:  r.ReserveExchangeAfter,
		ExecutedAt:            r.Timestamp.UTC(),
	}
}

func tradeFromModel(m *models.Trade) (*types.TradeRecord, error) {
	r := &types.TradeRecord{
		ID:                    m.TradeID,
		IsBuy:                 m.IsBuy,
		AmountIn:              m.AmountIn,
		AmountOut:             m.AmountOut,
		Fee:                   m.Fee,
		ReserveTokenBefore:    m.ReserveTokenBefore,
		ReserveTokenAfter:     m.ReserveTokenAfter,
		ReserveExchangeBefore: m.ReserveExchangeBefore,
		ReserveExchangeAfter:  m.ReserveExchangeAfter,
		Timestamp:             m.ExecutedAt,
	}
	err := keys(
		[]*solana.PublicKey{&r.Pool, &r.Mint, &r.Trader},
		m.Pool, m.Mint, m.Trader,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
