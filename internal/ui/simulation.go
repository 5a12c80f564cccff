package ui

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/amm"
	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/memory"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// SimulationConfig describes the sandbox deployment.
type SimulationConfig struct {
	FeeBps       uint64
	CreationFee  uint64
	Proportion   float64
	TraderFunds  uint64
	EventsBuffer int
	Slippage     types.SlippageConfig
}

// DefaultSimulationConfig returns a 1% fee curve, 1% slippage tolerance and a
// trader holding 1000 units.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		FeeBps:       100,
		CreationFee:  10_000_000,
		Proportion:   curve.DefaultProportion,
		TraderFunds:  1_000 * curve.Unit,
		EventsBuffer: 256,
		Slippage:     types.SlippageConfig{Type: types.SlippagePercent, Value: 1},
	}
}

// Snapshot is what the simulator screen renders.
type Snapshot struct {
	Pool           types.LiquidityPool
	MarketCap      uint64
	TraderExchange uint64
	TraderToken    uint64
	Lockdown       bool
	FeeBps         uint64
}

// Simulation is an in-memory deployment with one seeded pool and one trader.
type Simulation struct {
	Engine *amm.Engine
	Bus    *events.Bus

	ledger   *ledger.Memory
	logger   *zap.Logger
	slippage types.SlippageConfig

	admin  solana.PublicKey
	trader solana.PublicKey
	pool   solana.PublicKey
	token  solana.PublicKey
}

// NewSimulation initializes the configuration, issues a token, seeds its pool
// and credits the trader.
func NewSimulation(ctx context.Context, cfg SimulationConfig, logger *zap.Logger) (*Simulation, error) {
	l := ledger.NewMemory(logger)
	bus := events.NewBus(logger, cfg.EventsBuffer)

	engine, err := amm.NewEngine(memory.NewStore(), l, bus, logger)
	if err != nil {
		return nil, err
	}

	sim := &Simulation{
		Engine:   engine,
		Bus:      bus,
		ledger:   l,
		logger:   logger.Named("simulation"),
		slippage: cfg.Slippage,
		admin:    solana.NewWallet().PublicKey(),
		trader:   solana.NewWallet().PublicKey(),
	}
	creator := solana.NewWallet().PublicKey()

	params := types.ConfigParams{
		FeePercentage:       cfg.FeeBps,
		CreationFees:        cfg.CreationFee,
		Proportion:          cfg.Proportion,
		FeeCollector:        solana.NewWallet().PublicKey(),
		FeeSolCollector:     solana.NewWallet().PublicKey(),
		ExchangeTokenMint:   solana.SolMint,
		InitialTokenForPool: curve.Unit,
		IsSolFee:            true,
	}
	if _, err := engine.Initialize(ctx, sim.admin, params); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	if err := l.Credit(solana.SolMint, creator, cfg.CreationFee+params.InitialTokenForPool); err != nil {
		return nil, err
	}
	info, err := engine.CreateToken(ctx, creator, "Simulated Curve", "SIM", "simulator")
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	sim.token = info.Mint

	pool, err := engine.CreatePool(ctx, creator, info.Mint)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if _, err := engine.AddLiquidity(ctx, creator, pool.Address); err != nil {
		return nil, fmt.Errorf("add liquidity: %w", err)
	}
	sim.pool = pool.Address

	if err := l.Credit(solana.SolMint, sim.trader, cfg.TraderFunds); err != nil {
		return nil, err
	}

	sim.logger.Info("Simulation ready",
		zap.String("pool", sim.pool.String()),
		zap.String("mint", sim.token.String()),
		zap.String("trader", sim.trader.String()))
	return sim, nil
}

// Pool returns the simulated pool address.
func (s *Simulation) Pool() solana.PublicKey { return s.pool }

// Trader returns the simulated trader.
func (s *Simulation) Trader() solana.PublicKey { return s.trader }

// Buy spends amountIn exchange lamports with the configured slippage floor.
func (s *Simulation) Buy(ctx context.Context, amountIn uint64) (*amm.BuyResult, error) {
	plan, err := s.Engine.PreviewBuy(ctx, s.pool, amountIn)
	if err != nil {
		return nil, err
	}
	return s.Engine.Buy(ctx, s.trader, s.pool, amountIn, types.MinOutputAmount(plan.AmountOut, s.slippage))
}

// Sell sells tokenAmount raw tokens with the configured slippage floor.
func (s *Simulation) Sell(ctx context.Context, tokenAmount uint64) (*amm.SellResult, error) {
	plan, err := s.Engine.PreviewSell(ctx, s.pool, tokenAmount)
	if err != nil {
		return nil, err
	}
	return s.Engine.Sell(ctx, s.trader, s.pool, tokenAmount, types.MinOutputAmount(plan.Payout, s.slippage))
}

// ToggleLockdown flips the lockdown flag as the admin and returns the new value.
func (s *Simulation) ToggleLockdown(ctx context.Context) (bool, error) {
	cfg, err := s.Engine.Config(ctx)
	if err != nil {
		return false, err
	}
	params := types.ConfigParams{
		FeePercentage:       cfg.FeePercentage,
		CreationFees:        cfg.CreationFees,
		Proportion:          cfg.Proportion,
		FeeCollector:        cfg.FeeCollector,
		FeeSolCollector:     cfg.FeeSolCollector,
		ExchangeTokenMint:   cfg.ExchangeTokenMint,
		InitialTokenForPool: cfg.InitialTokenForPool,
		IsSolFee:            cfg.IsSolFee,
		IsLockdown:          !cfg.IsLockdown,
	}
	updated, err := s.Engine.UpdateConfiguration(ctx, s.admin, params)
	if err != nil {
		return false, err
	}
	return updated.IsLockdown, nil
}

// Snapshot reads pool, market cap and trader balances.
func (s *Simulation) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	cfg, err := s.Engine.Config(ctx)
	if err != nil {
		return snap, err
	}
	pool, err := s.Engine.Pool(ctx, s.pool)
	if err != nil {
		return snap, err
	}
	mc, err := s.Engine.CalculateMarketCap(ctx, s.pool)
	if err != nil {
		return snap, err
	}
	exchange, err := s.ledger.Balance(ctx, solana.SolMint, s.trader)
	if err != nil {
		return snap, err
	}
	tokens, err := s.ledger.Balance(ctx, s.token, s.trader)
	if err != nil {
		return snap, err
	}

	snap.Pool = *pool
	snap.MarketCap = mc
	snap.TraderExchange = exchange
	snap.TraderToken = tokens
	snap.Lockdown = cfg.IsLockdown
	snap.FeeBps = cfg.FeePercentage
	return snap, nil
}

// Close drains the event bus.
func (s *Simulation) Close(ctx context.Context) error {
	return s.Bus.Shutdown(ctx)
}
