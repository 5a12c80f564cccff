package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve/internal/amm"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
	"github.com/rovshanmuradov/bonding-curve/internal/ui/component"
	"github.com/rovshanmuradov/bonding-curve/internal/ui/style"
)

const (
	maxRecentTrades = 8
	sparklineWidth  = 40
)

// Model is the bubbletea model of the curve simulator.
type Model struct {
	ctx     context.Context
	sim     *Simulation
	updates *UpdateSender

	keys     KeyMap
	help     *component.HelpBar
	fullHelp *component.HelpBar
	showHelp bool
	theme    style.Theme
	input    textinput.Model
	spark    *component.Sparkline

	buying   bool
	snapshot Snapshot
	trades   []types.TradeRecord
	status   string
	err      error
	width    int
}

// NewModel creates the simulator screen. updates must be attached to sim.Bus.
func NewModel(ctx context.Context, sim *Simulation, updates *UpdateSender) Model {
	input := textinput.New()
	input.Placeholder = "amount"
	input.CharLimit = 24
	input.Width = 24
	input.Focus()

	keys := DefaultKeyMap()
	return Model{
		ctx:      ctx,
		sim:      sim,
		updates:  updates,
		keys:     keys,
		help:     component.NewHelpBar(keys.ShortHelp()...),
		fullHelp: component.NewHelpBar(keys.FullHelp()...),
		theme:    style.NewTheme(style.DefaultPalette()),
		input:    input,
		spark:    component.NewSparkline(sparklineWidth),
		buying:   true,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh(), waitForUpdate(m.updates.Messages()))
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TradeDoneMsg:
		m.err = nil
		m.status = describeTrade(msg)
		m.input.SetValue("")
		return m, m.refresh()

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.spark.AddDataPoint(float64(msg.Snapshot.MarketCap) / 1e9)
		return m, nil

	case LockdownMsg:
		m.err = nil
		if msg.Enabled {
			m.status = "lockdown enabled"
		} else {
			m.status = "lockdown disabled"
		}
		return m, m.refresh()

	case EventMsg:
		if te, ok := msg.Event.(*events.TradeEvent); ok {
			m.trades = append([]types.TradeRecord{te.Trade}, m.trades...)
			if len(m.trades) > maxRecentTrades {
				m.trades = m.trades[:maxRecentTrades]
			}
		}
		return m, waitForUpdate(m.updates.Messages())

	case ErrorMsg:
		m.err = msg.Error
		m.status = msg.Title
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.buying = !m.buying
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Lockdown):
		return m, m.toggleLockdown()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Enter):
		amount, err := parseAmount(m.input.Value(), amm.TokenDecimals)
		if err != nil {
			m.err = err
			m.status = "invalid amount"
			return m, nil
		}
		return m, m.trade(m.buying, amount)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) trade(buy bool, amount uint64) tea.Cmd {
	return func() tea.Msg {
		if buy {
			res, err := m.sim.Buy(m.ctx, amount)
			if err != nil {
				return ErrorMsg{Error: err, Title: "buy failed"}
			}
			return TradeDoneMsg{Buy: res}
		}
		res, err := m.sim.Sell(m.ctx, amount)
		if err != nil {
			return ErrorMsg{Error: err, Title: "sell failed"}
		}
		return TradeDoneMsg{Sell: res}
	}
}

func (m Model) toggleLockdown() tea.Cmd {
	return func() tea.Msg {
		enabled, err := m.sim.ToggleLockdown(m.ctx)
		if err != nil {
			return ErrorMsg{Error: err, Title: "lockdown toggle failed"}
		}
		return LockdownMsg{Enabled: enabled}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.sim.Snapshot(m.ctx)
		if err != nil {
			return ErrorMsg{Error: err, Title: "snapshot failed"}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func describeTrade(msg TradeDoneMsg) string {
	switch {
	case msg.Buy != nil:
		p := msg.Buy.Plan
		s := fmt.Sprintf("bought %s for %s (fee %s)",
			formatAmount(p.AmountOut, amm.TokenDecimals),
			formatAmount(p.FinalAmount, amm.TokenDecimals),
			formatAmount(p.FinalFee, amm.TokenDecimals))
		if p.Clamped {
			s += fmt.Sprintf(", refunded %s", formatAmount(p.RefundAmount, amm.TokenDecimals))
		}
		return s
	case msg.Sell != nil:
		p := msg.Sell.Plan
		return fmt.Sprintf("sold %s for %s (fee %s)",
			formatAmount(p.AmountIn, amm.TokenDecimals),
			formatAmount(p.Payout, amm.TokenDecimals),
			formatAmount(p.FeeAmount, amm.TokenDecimals))
	}
	return ""
}

// View implements tea.Model
func (m Model) View() string {
	t := m.theme
	var b strings.Builder

	title := t.Title.Render("Bonding curve simulator")
	if m.snapshot.Lockdown {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", t.Lockdown.Render("LOCKDOWN"))
	}
	b.WriteString(title + "\n")

	snap := m.snapshot
	rows := []struct{ label, value string }{
		{"Pool", snap.Pool.Address.String()},
		{"Reserve token", formatAmount(snap.Pool.ReserveToken, amm.TokenDecimals)},
		{"Reserve exchange", formatAmount(snap.Pool.ReserveExchange, amm.TokenDecimals)},
		{"Sold", formatAmount(snap.Pool.State().Sold(), amm.TokenDecimals)},
		{"Market cap", formatAmount(snap.MarketCap, amm.TokenDecimals)},
		{"Fee", fmt.Sprintf("%d bps", snap.FeeBps)},
		{"Your SOL", formatAmount(snap.TraderExchange, amm.TokenDecimals)},
		{"Your tokens", formatAmount(snap.TraderToken, amm.TokenDecimals)},
	}
	var panel strings.Builder
	for _, r := range rows {
		panel.WriteString(t.Label.Render(r.label) + t.Value.Render(r.value) + "\n")
	}
	panel.WriteString(t.Label.Render("Market cap trend") + m.spark.View())
	b.WriteString(t.Panel.Render(panel.String()) + "\n\n")

	side := t.Buy.Render("BUY  (SOL in)")
	if !m.buying {
		side = t.Sell.Render("SELL (tokens in)")
	}
	b.WriteString(side + "  " + m.input.View() + "\n\n")

	if m.err != nil {
		b.WriteString(t.Error.Render(fmt.Sprintf("%s: %v", m.status, m.err)) + "\n\n")
	} else if m.status != "" {
		b.WriteString(t.Muted.Render(m.status) + "\n\n")
	}

	if len(m.trades) > 0 {
		b.WriteString(t.Muted.Render("Recent trades") + "\n")
		for _, tr := range m.trades {
			line := fmt.Sprintf("%-4s in %-22s out %-22s fee %s",
				tr.Side(),
				formatAmount(tr.AmountIn, amm.TokenDecimals),
				formatAmount(tr.AmountOut, amm.TokenDecimals),
				formatAmount(tr.Fee, amm.TokenDecimals))
			if tr.IsBuy {
				b.WriteString(t.Buy.Render(line) + "\n")
			} else {
				b.WriteString(t.Sell.Render(line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.fullHelp.View())
	} else {
		b.WriteString(m.help.View())
	}
	return b.String()
}
