// internal/events/types.go
package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// EventType represents the type of event.
type EventType string

const (
	// AllEvents subscribes a handler to every event type.
	AllEvents EventType = "*"

	// Configuration events
	ConfigCreated EventType = "config.created"
	ConfigUpdated EventType = "config.updated"

	// Pool lifecycle events
	PoolCreated      EventType = "pool.created"
	LiquidityAdded   EventType = "liquidity.added"
	LiquidityRemoved EventType = "liquidity.removed"

	// Trading events
	Trade EventType = "trade"

	// Token events
	TokenCreated EventType = "token.created"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	ID() string
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventID   string    `json:"id"`
	EventType EventType `json:"type"`
	EventTime time.Time `json:"time"`
}

// NewBase stamps a new event with an id and the current time.
func NewBase(t EventType) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: t,
		EventTime: time.Now().UTC(),
	}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// ID returns the unique event id.
func (e BaseEvent) ID() string {
	return e.EventID
}

// ConfigurationEvent is emitted on Initialize (config.created) and
// UpdateConfiguration (config.updated) with the new values.
type ConfigurationEvent struct {
	BaseEvent
	Config types.CurveConfiguration `json:"config"`
}

// PoolCreatedEvent is emitted when an empty pool is created.
type PoolCreatedEvent struct {
	BaseEvent
	Pool          solana.PublicKey `json:"pool"`
	Creator       solana.PublicKey `json:"creator"`
	Token         solana.PublicKey `json:"token"`
	ExchangeToken solana.PublicKey `json:"exchange_token"`
}

// LiquidityAddedEvent is emitted once per pool when it is seeded.
type LiquidityAddedEvent struct {
	BaseEvent
	Pool           solana.PublicKey `json:"pool"`
	Provider       solana.PublicKey `json:"provider"`
	TokenAmount    uint64           `json:"token_amount"`
	ExchangeAmount uint64           `json:"exchange_amount"`
	TotalSupply    uint64           `json:"total_supply"`
}

// LiquidityRemovedEvent is emitted when the admin drains a pool.
type LiquidityRemovedEvent struct {
	BaseEvent
	Pool           solana.PublicKey `json:"pool"`
	Admin          solana.PublicKey `json:"admin"`
	TokenAmount    uint64           `json:"token_amount"`
	ExchangeAmount uint64           `json:"exchange_amount"`
}

// TradeEvent is emitted after every committed buy or sell.
type TradeEvent struct {
	BaseEvent
	Trade types.TradeRecord `json:"trade"`
}

// TokenCreatedEvent is emitted when a new mint is issued.
type TokenCreatedEvent struct {
	BaseEvent
	Mint        solana.PublicKey `json:"mint"`
	Creator     solana.PublicKey `json:"creator"`
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	OffChainID  string           `json:"off_chain_id"`
	Supply      uint64           `json:"supply"`
	Decimals    uint8            `json:"decimals"`
	CreationFee uint64           `json:"creation_fee"`
	FeeMint     solana.PublicKey `json:"fee_mint"`
}
