// internal/amm/config_ops.go
package amm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// Initialize creates the configuration singleton; the caller becomes admin.
func (e *Engine) Initialize(ctx context.Context, caller solana.PublicKey, params types.ConfigParams) (cfg *types.CurveConfiguration, err error) {
	defer e.observe(ctx, "initialize")(&err)

	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := e.validateParams(ctx, params); err != nil {
		return nil, err
	}

	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()

	_, err = e.store.GetConfig(ctx)
	switch {
	case err == nil:
		return nil, curve.ErrConfigAlreadyInitialized
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	_, bump, err := ConfigAddress(e.programID)
	if err != nil {
		return nil, err
	}

	cfg = &types.CurveConfiguration{Admin: caller, Bump: bump}
	cfg.Apply(params)

	if err := e.store.SaveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	e.logger.Info("Configuration initialized",
		zap.String("admin", caller.String()),
		zap.Uint64("fee_bps", cfg.FeePercentage),
		zap.Float64("proportion", cfg.Proportion),
		zap.Bool("lockdown", cfg.IsLockdown))

	e.publish(&events.ConfigurationEvent{BaseEvent: events.NewBase(events.ConfigCreated), Config: *cfg})
	return cfg, nil
}

// UpdateConfiguration overwrites every parameter. Admin only; allowed under lockdown.
func (e *Engine) UpdateConfiguration(ctx context.Context, caller solana.PublicKey, params types.ConfigParams) (cfg *types.CurveConfiguration, err error) {
	defer e.observe(ctx, "update_configuration")(&err)

	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()

	cfg, err = e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := authorize(RoleAdmin, cfg, nil, caller); err != nil {
		return nil, err
	}
	if err := e.validateParams(ctx, params); err != nil {
		return nil, err
	}

	wasLocked := cfg.IsLockdown
	cfg.Apply(params)

	if err := e.store.SaveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	if wasLocked != cfg.IsLockdown {
		e.logger.Warn("Lockdown switched", zap.Bool("lockdown", cfg.IsLockdown))
	}
	e.logger.Info("Configuration updated",
		zap.Uint64("fee_bps", cfg.FeePercentage),
		zap.Float64("proportion", cfg.Proportion))

	e.publish(&events.ConfigurationEvent{BaseEvent: events.NewBase(events.ConfigUpdated), Config: *cfg})
	return cfg, nil
}

func (e *Engine) validateParams(ctx context.Context, p types.ConfigParams) error {
	if p.FeePercentage < 1 || p.FeePercentage > curve.BasisPoints {
		return curve.ErrInvalidFee
	}
	if p.Proportion <= 0 || math.IsInf(p.Proportion, 0) || math.IsNaN(p.Proportion) {
		return fmt.Errorf("proportion %v: %w", p.Proportion, curve.ErrInvalidInput)
	}
	if p.ExchangeTokenMint.IsZero() {
		return curve.ErrInvalidExchangeTokenMint
	}
	if _, err := e.ledger.Decimals(ctx, p.ExchangeTokenMint); err != nil {
		return fmt.Errorf("%w: %v", curve.ErrInvalidExchangeTokenMint, err)
	}
	if p.InitialTokenForPool == 0 {
		return curve.ErrInvalidInitialTokenForPool
	}
	if p.FeeCollector.IsZero() || p.FeeSolCollector.IsZero() {
		return fmt.Errorf("fee collectors must be set: %w", curve.ErrInvalidInput)
	}
	return nil
}
