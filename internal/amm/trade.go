// ============================
// File: internal/amm/trade.go
// ============================
package amm

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/logger"
)

// BuyResult is the committed outcome of a buy.
type BuyResult struct {
	Plan  curve.BuyPlan       `json:"plan"`
	Trade types.TradeRecord   `json:"trade"`
	Pool  types.LiquidityPool `json:"pool"`
}

// SellResult is the committed outcome of a sell.
type SellResult struct {
	Plan  curve.SellPlan      `json:"plan"`
	Trade types.TradeRecord   `json:"trade"`
	Pool  types.LiquidityPool `json:"pool"`
}

// Buy spends up to amountIn of the exchange asset on pool tokens.
// minOut is compared with the tokens actually delivered, after clamping.
func (e *Engine) Buy(ctx context.Context, caller, address solana.PublicKey, amountIn, minOut uint64) (res *BuyResult, err error) {
	defer e.observe(ctx, "buy")(&err)
	defer logger.TrackPerformance(e.logger, "buy")()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkLockdown(cfg); err != nil {
		return nil, err
	}
	if amountIn == 0 {
		return nil, curve.ErrInvalidAmount
	}

	unlock := e.pools.Lock(address.String())
	defer unlock()

	pool, err := e.loadPool(ctx, address)
	if err != nil {
		return nil, err
	}

	before := pool.State()
	plan, err := curve.PlanBuy(before, cfg.Proportion, cfg.FeePercentage, amountIn)
	if err != nil {
		return nil, err
	}
	if plan.AmountOut < minOut {
		return nil, fmt.Errorf("amount out %d below minimum %d: %w", plan.AmountOut, minOut, curve.ErrMinOutputAmountNotMet)
	}

	after, err := before.ApplyBuy(plan)
	if err != nil {
		return nil, err
	}

	transfers := []ledger.Transfer{
		{Mint: pool.ExchangeToken, From: caller, To: cfg.FeeCollector, Amount: plan.FinalFee},
		{Mint: pool.ExchangeToken, From: caller, To: pool.Address, Amount: plan.FinalAmount - plan.FinalFee},
		{Mint: pool.Token, From: pool.Address, To: caller, Amount: plan.AmountOut},
	}

	pool.SetState(after)
	if err := e.commit(ctx, pool, transfers); err != nil {
		return nil, err
	}

	rec := e.record(pool, caller, true, before, after)
	rec.AmountIn = plan.FinalAmount
	rec.AmountOut = plan.AmountOut
	rec.Fee = plan.FinalFee
	e.finishTrade(ctx, pool, rec)

	if plan.Clamped {
		logger.WithPool(e.logger, pool).Info("Buy clamped at sell limit",
			zap.Uint64("requested", plan.AmountIn),
			zap.Uint64("final_amount", plan.FinalAmount),
			zap.Uint64("refund", plan.RefundAmount))
	}

	return &BuyResult{Plan: plan, Trade: *rec, Pool: *pool}, nil
}

// Sell returns amountIn tokens to the pool. minOut is compared with the net
// payout delivered to the caller.
func (e *Engine) Sell(ctx context.Context, caller, address solana.PublicKey, amountIn, minOut uint64) (res *SellResult, err error) {
	defer e.observe(ctx, "sell")(&err)
	defer logger.TrackPerformance(e.logger, "sell")()

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkLockdown(cfg); err != nil {
		return nil, err
	}
	if amountIn == 0 {
		return nil, curve.ErrInvalidAmount
	}

	unlock := e.pools.Lock(address.String())
	defer unlock()

	pool, err := e.loadPool(ctx, address)
	if err != nil {
		return nil, err
	}

	before := pool.State()
	plan, err := curve.PlanSell(before, cfg.Proportion, cfg.FeePercentage, amountIn)
	if err != nil {
		return nil, err
	}
	if plan.Payout < minOut {
		return nil, fmt.Errorf("payout %d below minimum %d: %w", plan.Payout, minOut, curve.ErrMinOutputAmountNotMet)
	}

	after, err := before.ApplySell(plan)
	if err != nil {
		return nil, err
	}

	transfers := []ledger.Transfer{
		{Mint: pool.Token, From: caller, To: pool.Address, Amount: plan.AmountIn},
		{Mint: pool.ExchangeToken, From: pool.Address, To: caller, Amount: plan.Payout},
		{Mint: pool.ExchangeToken, From: pool.Address, To: cfg.FeeCollector, Amount: plan.FeeAmount},
	}

	pool.SetState(after)
	if err := e.commit(ctx, pool, transfers); err != nil {
		return nil, err
	}

	rec := e.record(pool, caller, false, before, after)
	rec.AmountIn = plan.AmountIn
	rec.AmountOut = plan.Payout
	rec.Fee = plan.FeeAmount
	e.finishTrade(ctx, pool, rec)

	return &SellResult{Plan: plan, Trade: *rec, Pool: *pool}, nil
}

func (e *Engine) record(pool *types.LiquidityPool, trader solana.PublicKey, isBuy bool, before, after curve.State) *types.TradeRecord {
	return &types.TradeRecord{
		ID:                    uuid.New().String(),
		Pool:                  pool.Address,
		Mint:                  pool.Token,
		Trader:                trader,
		IsBuy:                 isBuy,
		ReserveTokenBefore:    before.ReserveToken,
		ReserveTokenAfter:     after.ReserveToken,
		ReserveExchangeBefore: before.ReserveExchange,
		ReserveExchangeAfter:  after.ReserveExchange,
		Timestamp:             e.now(),
	}
}

// finishTrade runs after commit; history and events are best effort.
func (e *Engine) finishTrade(ctx context.Context, pool *types.LiquidityPool, rec *types.TradeRecord) {
	if err := e.store.SaveTrade(ctx, rec); err != nil {
		e.logger.Error("Failed to save trade record",
			zap.String("trade_id", rec.ID),
			zap.Error(err))
	}

	e.metrics.RecordTrade(rec)

	logger.WithPool(e.logger, pool).Info("Trade executed",
		zap.String("side", rec.Side()),
		zap.String("trader", rec.Trader.String()),
		zap.Uint64("amount_in", rec.AmountIn),
		zap.Uint64("amount_out", rec.AmountOut),
		zap.Uint64("fee", rec.Fee))

	e.publish(&events.TradeEvent{BaseEvent: events.NewBase(events.Trade), Trade: *rec})
}
