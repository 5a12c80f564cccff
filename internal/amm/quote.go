// internal/amm/quote.go
package amm

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// Котировки читают снимок пула и ничего не меняют; блокировки пула не берутся

func (e *Engine) snapshot(ctx context.Context, address solana.PublicKey) (*types.CurveConfiguration, *types.LiquidityPool, error) {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	pool, err := e.loadPool(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

// CalculateBuyAmount quotes the curve for amountIn of exchange asset, without fee or clamp.
func (e *Engine) CalculateBuyAmount(ctx context.Context, address solana.PublicKey, amountIn uint64) (uint64, error) {
	cfg, pool, err := e.snapshot(ctx, address)
	if err != nil {
		return 0, err
	}
	return curve.BuyAmount(pool.State(), cfg.Proportion, amountIn)
}

// CalculateSellAmount quotes the gross proceeds of selling tokenAmount, without fee.
func (e *Engine) CalculateSellAmount(ctx context.Context, address solana.PublicKey, tokenAmount uint64) (uint64, error) {
	cfg, pool, err := e.snapshot(ctx, address)
	if err != nil {
		return 0, err
	}
	return curve.SellAmount(pool.State(), cfg.Proportion, tokenAmount)
}

// CalculateMarketCap returns the market capitalization in exchange-asset units.
func (e *Engine) CalculateMarketCap(ctx context.Context, address solana.PublicKey) (uint64, error) {
	cfg, pool, err := e.snapshot(ctx, address)
	if err != nil {
		return 0, err
	}
	return curve.MarketCap(pool.State(), cfg.Proportion)
}

// PreviewBuy returns the plan Buy would execute right now, fee and clamp included.
func (e *Engine) PreviewBuy(ctx context.Context, address solana.PublicKey, amountIn uint64) (curve.BuyPlan, error) {
	cfg, pool, err := e.snapshot(ctx, address)
	if err != nil {
		return curve.BuyPlan{}, err
	}
	return curve.PlanBuy(pool.State(), cfg.Proportion, cfg.FeePercentage, amountIn)
}

// PreviewSell returns the plan Sell would execute right now.
func (e *Engine) PreviewSell(ctx context.Context, address solana.PublicKey, tokenAmount uint64) (curve.SellPlan, error) {
	cfg, pool, err := e.snapshot(ctx, address)
	if err != nil {
		return curve.SellPlan{}, err
	}
	return curve.PlanSell(pool.State(), cfg.Proportion, cfg.FeePercentage, tokenAmount)
}
