package ui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/events"
)

// UpdateSender provides non-blocking UI update sending with statistics
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
}

// NewUpdateSender creates a new non-blocking update sender
func NewUpdateSender(msgChan chan tea.Msg, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       msgChan,
		logger:        logger,
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}

	// Start periodic stats logging
	go us.logStats()

	return us
}

// SendUpdate sends a message to UI without blocking
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		// UI отстает: событие теряется, шина движка не блокируется
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

// Handle forwards engine events as EventMsg.
func (us *UpdateSender) Handle(_ context.Context, event events.Event) error {
	us.SendUpdate(EventMsg{Event: event})
	return nil
}

// Attach subscribes the sender to every event on the bus.
func (us *UpdateSender) Attach(bus *events.Bus) events.Subscription {
	return bus.Subscribe(events.AllEvents, us)
}

// AttachPool subscribes the sender to events of one pool plus the
// configuration events every screen needs.
func (us *UpdateSender) AttachPool(bus *events.Bus, pool solana.PublicKey) events.Subscription {
	return bus.Subscribe(events.AllEvents, events.ForPool(pool, us))
}

// Messages returns the channel the program drains.
func (us *UpdateSender) Messages() <-chan tea.Msg {
	return us.msgChan
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

// logStats periodically logs statistics
func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped),
					zap.Float64("drop_rate", float64(dropped)/float64(sent+dropped)*100))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the update sender
func (us *UpdateSender) Close() {
	close(us.stopStats)
}

// waitForUpdate blocks until the next forwarded message.
func waitForUpdate(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
