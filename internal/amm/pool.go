// ===========================
// File: internal/amm/pool.go
// ===========================
package amm

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/logger"
)

// CreatePool opens an empty pool for token against the configured exchange asset.
func (e *Engine) CreatePool(ctx context.Context, caller, token solana.PublicKey) (pool *types.LiquidityPool, err error) {
	defer e.observe(ctx, "create_pool")(&err)

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
	if token.Equals(cfg.ExchangeTokenMint) {
		return nil, curve.ErrDuplicateTokenNotAllowed
	}
	if _, err := e.ledger.Decimals(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", curve.ErrInvalidInput, err)
	}

	address, bump, err := PoolAddress(e.programID, token, cfg.ExchangeTokenMint)
	if err != nil {
		return nil, err
	}

	unlock := e.pools.Lock(address.String())
	defer unlock()

	_, err = e.store.GetPool(ctx, address)
	switch {
	case err == nil:
		return nil, curve.ErrPoolAlreadyExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to load pool %s: %w", address, err)
	}

	pool = &types.LiquidityPool{
		Address:       address,
		Creator:       caller,
		Token:         token,
		ExchangeToken: cfg.ExchangeTokenMint,
		Bump:          bump,
	}
	if err := e.store.SavePool(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to save pool: %w", err)
	}

	logger.WithPool(e.logger, pool).Info("Pool created", zap.String("creator", caller.String()))

	e.publish(&events.PoolCreatedEvent{
		BaseEvent:     events.NewBase(events.PoolCreated),
		Pool:          pool.Address,
		Creator:       pool.Creator,
		Token:         pool.Token,
		ExchangeToken: pool.ExchangeToken,
	})
	return pool, nil
}

// AddLiquidity seeds the pool once with the creator's whole token balance and
// the configured amount of exchange asset.
func (e *Engine) AddLiquidity(ctx context.Context, caller, address solana.PublicKey) (pool *types.LiquidityPool, err error) {
	defer e.observe(ctx, "add_liquidity")(&err)

	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkLockdown(cfg); err != nil {
		return nil, err
	}

	unlock := e.pools.Lock(address.String())
	defer unlock()

	pool, err = e.loadPool(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := authorize(RoleCreator, cfg, pool, caller); err != nil {
		return nil, err
	}
	if pool.Seeded() {
		return nil, curve.ErrFailedToAddLiquidity
	}

	decimals, err := e.ledger.Decimals(ctx, pool.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to read token decimals: %w", err)
	}
	totalSupply, err := curve.VirtualSupply(decimals)
	if err != nil {
		return nil, err
	}

	tokenAmount, err := e.ledger.Balance(ctx, pool.Token, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to read creator balance: %w", err)
	}
	if tokenAmount == 0 {
		return nil, fmt.Errorf("creator holds no tokens: %w", curve.ErrInvalidAmount)
	}
	if tokenAmount > totalSupply {
		return nil, fmt.Errorf("deposit %d exceeds total supply %d: %w", tokenAmount, totalSupply, curve.ErrInvalidInput)
	}
	exchangeAmount := cfg.InitialTokenForPool

	transfers := []ledger.Transfer{
		{Mint: pool.Token, From: caller, To: pool.Address, Amount: tokenAmount},
		{Mint: pool.ExchangeToken, From: caller, To: pool.Address, Amount: exchangeAmount},
	}

	pool.TotalSupply = totalSupply
	pool.ReserveToken = tokenAmount
	pool.ReserveExchange = exchangeAmount

	if err := e.commit(ctx, pool, transfers); err != nil {
		return nil, err
	}

	logger.WithPool(e.logger, pool).Info("Liquidity added",
		zap.Uint64("total_supply", totalSupply),
		zap.Uint64("reserve_token", tokenAmount),
		zap.Uint64("reserve_exchange", exchangeAmount))

	e.publish(&events.LiquidityAddedEvent{
		BaseEvent:      events.NewBase(events.LiquidityAdded),
		Pool:           pool.Address,
		Provider:       caller,
		TokenAmount:    tokenAmount,
		ExchangeAmount: exchangeAmount,
		TotalSupply:    totalSupply,
	})
	return pool, nil
}

// RemoveLiquidity drains both vaults to the admin and zeroes the pool.
func (e *Engine) RemoveLiquidity(ctx context.Context, caller, address solana.PublicKey) (pool *types.LiquidityPool, err error) {
	defer e.observe(ctx, "remove_liquidity")(&err)

	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := authorize(RoleAdmin, cfg, nil, caller); err != nil {
		return nil, err
	}
	if err := checkLockdown(cfg); err != nil {
		return nil, err
	}

	unlock := e.pools.Lock(address.String())
	defer unlock()

	pool, err = e.loadPool(ctx, address)
	if err != nil {
		return nil, err
	}
	if !pool.Seeded() {
		return nil, curve.ErrFailedToRemoveLiquidity
	}

	// Выводим фактические балансы хранилищ, а не учетные резервы
	tokenAmount, err := e.ledger.Balance(ctx, pool.Token, pool.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to read token vault: %w", err)
	}
	exchangeAmount, err := e.ledger.Balance(ctx, pool.ExchangeToken, pool.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to read exchange vault: %w", err)
	}

	transfers := []ledger.Transfer{
		{Mint: pool.Token, From: pool.Address, To: cfg.Admin, Amount: tokenAmount},
		{Mint: pool.ExchangeToken, From: pool.Address, To: cfg.Admin, Amount: exchangeAmount},
	}

	pool.TotalSupply = 0
	pool.ReserveToken = 0
	pool.ReserveExchange = 0

	if err := e.commit(ctx, pool, transfers); err != nil {
		return nil, err
	}

	logger.WithPool(e.logger, pool).Info("Liquidity removed",
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("exchange_amount", exchangeAmount))

	e.publish(&events.LiquidityRemovedEvent{
		BaseEvent:      events.NewBase(events.LiquidityRemoved),
		Pool:           pool.Address,
		Admin:          cfg.Admin,
		TokenAmount:    tokenAmount,
		ExchangeAmount: exchangeAmount,
	})
	return pool, nil
}
