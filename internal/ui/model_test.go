package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	sim, err := NewSimulation(context.Background(), DefaultSimulationConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sim.Close(context.Background()) })
	return sim
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	sim := newTestSimulation(t)
	sender := NewUpdateSender(make(chan tea.Msg, 64), zap.NewNop())
	t.Cleanup(sender.Close)
	return NewModel(context.Background(), sim, sender)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestSimulation_Seeded(t *testing.T) {
	sim := newTestSimulation(t)
	ctx := context.Background()

	snap, err := sim.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Pool.Seeded())
	assert.Equal(t, uint64(curve.VirtualSupplyUnits)*curve.Unit, snap.Pool.ReserveToken)
	assert.Equal(t, uint64(curve.Unit), snap.Pool.ReserveExchange)
	assert.Equal(t, DefaultSimulationConfig().TraderFunds, snap.TraderExchange)
	assert.Zero(t, snap.TraderToken)
	assert.Zero(t, snap.MarketCap)
}

func TestSimulation_TradeAndLockdown(t *testing.T) {
	sim := newTestSimulation(t)
	ctx := context.Background()

	res, err := sim.Buy(ctx, 10*curve.Unit)
	require.NoError(t, err)

	snap, err := sim.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Plan.AmountOut, snap.TraderToken)
	assert.Positive(t, snap.MarketCap)

	enabled, err := sim.ToggleLockdown(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = sim.Sell(ctx, res.Plan.AmountOut)
	assert.ErrorIs(t, err, curve.ErrLockdown)

	enabled, err = sim.ToggleLockdown(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	sold, err := sim.Sell(ctx, res.Plan.AmountOut)
	require.NoError(t, err)
	assert.Positive(t, sold.Plan.Payout)
}

func TestModel_BuyFlow(t *testing.T) {
	m := newTestModel(t)
	m = run(t, m, m.refresh())
	assert.Equal(t, 1, m.spark.Len())

	m.input.SetValue("1")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	msg := cmd()
	done, ok := msg.(TradeDoneMsg)
	require.True(t, ok, "got %T", msg)
	require.NotNil(t, done.Buy)
	assert.Equal(t, uint64(curve.Unit), done.Buy.Plan.AmountIn)

	next, cmd = m.Update(done)
	m = next.(Model)
	assert.Contains(t, m.status, "bought")
	assert.Empty(t, m.input.Value())

	m = run(t, m, cmd)
	assert.Equal(t, done.Buy.Plan.AmountOut, m.snapshot.TraderToken)
	assert.Contains(t, m.View(), "Bonding curve simulator")
}

func TestModel_Keys(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, m.buying)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.False(t, m.buying)
	assert.Contains(t, m.View(), "SELL")

	m.input.SetValue("oops")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Error(t, m.err)

	// продажа без токенов
	m.input.SetValue("1")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	errMsg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, "sell failed", errMsg.Title)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	lock, ok := cmd().(LockdownMsg)
	require.True(t, ok)
	assert.True(t, lock.Enabled)

	next, cmd = m.Update(lock)
	m = run(t, next.(Model), cmd)
	assert.True(t, m.snapshot.Lockdown)
	assert.Contains(t, m.View(), "LOCKDOWN")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EventsAndErrors(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < maxRecentTrades+2; i++ {
		ev := &events.TradeEvent{
			BaseEvent: events.NewBase(events.Trade),
			Trade:     types.TradeRecord{IsBuy: i%2 == 0, AmountIn: uint64(i + 1)},
		}
		next, cmd := m.Update(EventMsg{Event: ev})
		m = next.(Model)
		assert.NotNil(t, cmd, "model keeps listening for updates")
	}
	require.Len(t, m.trades, maxRecentTrades)
	assert.Equal(t, uint64(maxRecentTrades+2), m.trades[0].AmountIn, "newest first")

	next, _ := m.Update(ErrorMsg{Error: errors.New("boom"), Title: "buy failed"})
	m = next.(Model)
	assert.Contains(t, m.View(), "buy failed: boom")
}
