// cmd/tui/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/ui"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/logger"
)

func main() {
	logFile := flag.String("log", "curve-tui.log", "Path to log file")
	feeBps := flag.Uint64("fee", 100, "Trading fee in basis points")
	funds := flag.Uint64("funds", 1_000, "Trader balance in whole exchange units")
	flag.Parse()

	// Create context with signal handling
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = *logFile
	logCfg.DisableConsole = true
	appLogger, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	simCfg := ui.DefaultSimulationConfig()
	simCfg.FeeBps = *feeBps
	simCfg.TraderFunds = *funds * curve.Unit

	sim, err := ui.NewSimulation(rootCtx, simCfg, appLogger.Logger)
	if err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}

	updates := ui.NewUpdateSender(make(chan tea.Msg, 256), appLogger.Logger)
	defer updates.Close()
	sub := updates.AttachPool(sim.Bus, sim.Pool())
	defer sub.Unsubscribe()

	appLogger.Info("Starting curve simulator TUI")

	program := tea.NewProgram(
		ui.NewModel(rootCtx, sim, updates),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Close(shutdownCtx); err != nil {
		appLogger.Warn("Event bus shutdown incomplete", zap.Error(err))
	}
	appLogger.Info("Shutting down TUI application")
}
