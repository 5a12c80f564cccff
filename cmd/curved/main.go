// ====================================
// File: cmd/curved/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/bonding-curve/internal/amm"
	"github.com/rovshanmuradov/bonding-curve/internal/api"
	"github.com/rovshanmuradov/bonding-curve/internal/config"
	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
	"github.com/rovshanmuradov/bonding-curve/internal/sink/natsx"
	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/memory"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/postgres"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/redisstore"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/logger"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (json or yaml)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	if err := run(rootCtx, cfg, appLogger.Logger); err != nil {
		appLogger.LogError("Curve daemon stopped with error", err)
		return
	}
	appLogger.Info("Curve daemon stopped")
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	store, err := openStore(ctx, cfg.Storage, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	bus := events.NewBus(zlog, cfg.Events.BufferSize)
	collector := metrics.NewCollector(nil)
	programID := solana.MustPublicKeyFromBase58(cfg.ProgramID)

	l := ledger.NewMemory(zlog)
	for _, acc := range cfg.Ledger.Genesis {
		owner := solana.MustPublicKeyFromBase58(acc.Owner)
		if err := l.Credit(solana.SolMint, owner, acc.Amount); err != nil {
			return fmt.Errorf("genesis credit %s: %w", owner, err)
		}
	}

	engine, err := amm.NewEngine(store, l, bus, zlog,
		amm.WithMetrics(collector),
		amm.WithProgramID(programID),
	)
	if err != nil {
		return err
	}

	if cfg.Curve.Bootstrap {
		if err := bootstrap(ctx, engine, cfg.Curve, zlog); err != nil {
			return err
		}
	}

	if cfg.NATS.URL != "" {
		natsCfg := natsx.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.SubjectRoot = cfg.NATS.SubjectRoot
		natsCfg.ConnectTries = cfg.Storage.ConnectTries

		publisher, err := natsx.NewPublisher(ctx, natsCfg, zlog)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				zlog.Warn("Failed to close NATS publisher", zap.Error(err))
			}
		}()
		publisher.Attach(bus)
	}

	server := api.NewServer(engine, collector.Handler(), zlog)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, cfg.Server)
	})
	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if shutdownErr := bus.Shutdown(shutdownCtx); shutdownErr != nil {
		zlog.Warn("Event bus shutdown incomplete", zap.Error(shutdownErr))
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openStore(ctx context.Context, cfg config.StorageConfig, zlog *zap.Logger) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		store, err = postgres.NewStorage(ctx, cfg.PostgresDSN, postgres.Options{
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
			ConnectTries:    cfg.ConnectTries,
		}, zlog)
	case config.DriverRedis:
		store, err = redisstore.New(ctx, redisstore.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			ConnectTries: cfg.ConnectTries,
		}, zlog)
	default:
		store = memory.NewStore()
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Driver, err)
	}

	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	zlog.Info("Storage ready", zap.String("driver", cfg.Driver))
	return store, nil
}

// bootstrap создает конфигурацию при первом запуске; существующая не трогается.
func bootstrap(ctx context.Context, engine *amm.Engine, cfg config.CurveConfig, zlog *zap.Logger) error {
	params, admin, err := cfg.Params()
	if err != nil {
		return err
	}

	_, err = engine.Initialize(ctx, admin, params)
	switch {
	case errors.Is(err, curve.ErrConfigAlreadyInitialized):
		zlog.Info("Curve configuration already present, bootstrap skipped")
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap: %w", err)
	}
	zlog.Info("Curve configuration bootstrapped", zap.String("admin", admin.String()))
	return nil
}
