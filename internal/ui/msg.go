package ui

import (
	"github.com/rovshanmuradov/bonding-curve/internal/amm"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
)

// Tea message types for UI communication

// EventMsg wraps engine events for the UI
type EventMsg struct {
	Event events.Event
}

// TradeDoneMsg represents a committed buy or sell
type TradeDoneMsg struct {
	Buy  *amm.BuyResult
	Sell *amm.SellResult
}

// SnapshotMsg carries fresh pool and balance figures
type SnapshotMsg struct {
	Snapshot Snapshot
}

// LockdownMsg reports the lockdown flag after a toggle
type LockdownMsg struct {
	Enabled bool
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}
