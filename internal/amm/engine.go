// =============================
// File: internal/amm/engine.go
// =============================
package amm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/metrics"
)

// Engine executes curve operations against a store and a ledger.
//
// Every mutating operation follows the same sequence: load, validate,
// authorize, plan, submit one atomic transfer batch, persist, publish.
// A failure at any step before persistence leaves no trace.
type Engine struct {
	store     storage.Store
	ledger    ledger.Ledger
	events    events.Publisher
	logger    *zap.Logger
	metrics   *metrics.Collector
	programID solana.PublicKey
	now       func() time.Time

	// cfgMu: конфигурация меняется под Lock, все прочие операции под RLock
	cfgMu sync.RWMutex
	pools *keyedMutex
	mints *keyedMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches a prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithProgramID sets the program id addresses are derived under.
func WithProgramID(id solana.PublicKey) Option {
	return func(e *Engine) { e.programID = id }
}

// WithClock overrides time.Now for trade timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine. publisher may be nil.
func NewEngine(store storage.Store, l ledger.Ledger, publisher events.Publisher, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if l == nil {
		return nil, errors.New("ledger is required")
	}

	e := &Engine{
		store:     store,
		ledger:    l,
		events:    publisher,
		logger:    logger.Named("amm"),
		programID: solana.MustPublicKeyFromBase58(DefaultProgramID),
		now:       func() time.Time { return time.Now().UTC() },
		pools:     newKeyedMutex(),
		mints:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.programID.IsZero() {
		return nil, errors.New("program id is required")
	}

	return e, nil
}

// DefaultProgramID is used when WithProgramID is not given.
const DefaultProgramID = "CurvEYxCjuBmBUGdHSzNUbMHhSgEaDbXaChGMYySGDas"

// ProgramID returns the program id the engine derives addresses under.
func (e *Engine) ProgramID() solana.PublicKey {
	return e.programID
}

// Config returns the current configuration.
func (e *Engine) Config(ctx context.Context) (*types.CurveConfiguration, error) {
	return e.loadConfig(ctx)
}

// Pool returns a pool by address.
func (e *Engine) Pool(ctx context.Context, address solana.PublicKey) (*types.LiquidityPool, error) {
	return e.loadPool(ctx, address)
}

// Pools lists every pool.
func (e *Engine) Pools(ctx context.Context) ([]*types.LiquidityPool, error) {
	return e.store.ListPools(ctx)
}

// Trades returns the trade history of a pool, newest first.
func (e *Engine) Trades(ctx context.Context, pool solana.PublicKey, limit, offset int) ([]*types.TradeRecord, error) {
	if _, err := e.loadPool(ctx, pool); err != nil {
		return nil, err
	}
	return e.store.ListTrades(ctx, pool, limit, offset)
}

func (e *Engine) loadConfig(ctx context.Context) (*types.CurveConfiguration, error) {
	cfg, err := e.store.GetConfig(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, curve.ErrConfigNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func (e *Engine) loadPool(ctx context.Context, address solana.PublicKey) (*types.LiquidityPool, error) {
	pool, err := e.store.GetPool(ctx, address)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("pool %s: %w", address, curve.ErrPoolNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pool %s: %w", address, err)
	}
	return pool, nil
}

// commit submits the transfer batch and persists the pool. If persistence
// fails the batch is reversed so the ledger and the store stay consistent.
func (e *Engine) commit(ctx context.Context, pool *types.LiquidityPool, transfers []ledger.Transfer) error {
	if err := e.ledger.Apply(ctx, transfers...); err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	if err := e.store.SavePool(ctx, pool); err != nil {
		rollbackCtx := context.WithoutCancel(ctx)
		if rerr := e.ledger.Apply(rollbackCtx, ledger.Reverse(transfers)...); rerr != nil {
			e.logger.Error("Failed to roll back transfers",
				zap.String("pool", pool.Address.String()),
				zap.Error(rerr))
		}
		return fmt.Errorf("failed to save pool: %w", err)
	}

	e.metrics.SetPoolReserves(pool)
	return nil
}

// publish never fails the operation: the state is already committed.
func (e *Engine) publish(event events.Event) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(event); err != nil {
		e.logger.Warn("Failed to publish event",
			zap.String("event_type", string(event.Type())),
			zap.String("event_id", event.ID()),
			zap.Error(err))
	}
}

// observe записывает длительность и исход операции
func (e *Engine) observe(ctx context.Context, op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		e.metrics.RecordOperation(ctx, op, time.Since(start), *errp)
		if *errp != nil {
			e.logger.Debug("Operation failed", zap.String("operation", op), zap.Error(*errp))
		}
	}
}

func checkLockdown(cfg *types.CurveConfiguration) error {
	if cfg.IsLockdown {
		return curve.ErrLockdown
	}
	return nil
}

func requireCaller(caller solana.PublicKey) error {
	if caller.IsZero() {
		return fmt.Errorf("caller is empty: %w", curve.ErrInvalidInput)
	}
	return nil
}
