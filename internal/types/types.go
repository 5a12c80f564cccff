// internal/types/types.go
package types

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
)

// CurveConfiguration holds the deployment-wide curve parameters.
type CurveConfiguration struct {
	FeePercentage       uint64           `json:"fee_percentage"` // basis points
	CreationFees        uint64           `json:"creation_fees"`
	Proportion          float64          `json:"proportion"`
	FeeCollector        solana.PublicKey `json:"fee_collector"`
	FeeSolCollector     solana.PublicKey `json:"fee_sol_collector"`
	ExchangeTokenMint   solana.PublicKey `json:"exchange_token_mint"`
	Admin               solana.PublicKey `json:"admin"`
	InitialTokenForPool uint64           `json:"initial_token_for_pool"`
	IsSolFee            bool             `json:"is_sol_fee"`
	IsLockdown          bool             `json:"is_lockdown"`
	Bump                uint8            `json:"bump"`
}

// ConfigParams are the caller-supplied fields of Initialize and UpdateConfiguration.
type ConfigParams struct {
	FeePercentage       uint64           `json:"fee_percentage"`
	CreationFees        uint64           `json:"creation_fees"`
	Proportion          float64          `json:"proportion"`
	FeeCollector        solana.PublicKey `json:"fee_collector"`
	FeeSolCollector     solana.PublicKey `json:"fee_sol_collector"`
	ExchangeTokenMint   solana.PublicKey `json:"exchange_token_mint"`
	InitialTokenForPool uint64           `json:"initial_token_for_pool"`
	IsSolFee            bool             `json:"is_sol_fee"`
	IsLockdown          bool             `json:"is_lockdown"`
}

// Apply overwrites every parameter field of the configuration.
func (c *CurveConfiguration) Apply(p ConfigParams) {
	c.FeePercentage = p.FeePercentage
	c.CreationFees = p.CreationFees
	c.Proportion = p.Proportion
	c.FeeCollector = p.FeeCollector
	c.FeeSolCollector = p.FeeSolCollector
	c.ExchangeTokenMint = p.ExchangeTokenMint
	c.InitialTokenForPool = p.InitialTokenForPool
	c.IsSolFee = p.IsSolFee
	c.IsLockdown = p.IsLockdown
}

// LiquidityPool is the per-pair curve state.
type LiquidityPool struct {
	Address         solana.PublicKey `json:"address"`
	Creator         solana.PublicKey `json:"creator"`
	Token           solana.PublicKey `json:"token"`
	ExchangeToken   solana.PublicKey `json:"exchange_token"`
	TotalSupply     uint64           `json:"total_supply"`
	ReserveToken    uint64           `json:"reserve_token"`
	ReserveExchange uint64           `json:"reserve_exchange"`
	Bump            uint8            `json:"bump"`
}

// State returns the curve view of the pool.
func (p *LiquidityPool) State() curve.State {
	return curve.State{
		TotalSupply:     p.TotalSupply,
		ReserveToken:    p.ReserveToken,
		ReserveExchange: p.ReserveExchange,
	}
}

// SetState copies reserves and supply back from a curve state.
func (p *LiquidityPool) SetState(s curve.State) {
	p.TotalSupply = s.TotalSupply
	p.ReserveToken = s.ReserveToken
	p.ReserveExchange = s.ReserveExchange
}

// Seeded reports whether AddLiquidity has run.
func (p *LiquidityPool) Seeded() bool {
	return p.TotalSupply > 0
}

// TradeRecord is a committed buy or sell.
type TradeRecord struct {
	ID                    string           `json:"id"`
	Pool                  solana.PublicKey `json:"pool"`
	Mint                  solana.PublicKey `json:"mint"`
	Trader                solana.PublicKey `json:"trader"`
	IsBuy                 bool             `json:"is_buy"`
	AmountIn              uint64           `json:"amount_in"`
	AmountOut             uint64           `json:"amount_out"`
	Fee                   uint64           `json:"fee"`
	ReserveTokenBefore    uint64           `json:"reserve_token_before"`
	ReserveTokenAfter     uint64           `json:"reserve_token_after"`
	ReserveExchangeBefore uint64           `json:"reserve_exchange_before"`
	ReserveExchangeAfter  uint64           `json:"reserve_exchange_after"`
	Timestamp             time.Time        `json:"timestamp"`
}

// Side returns "buy" or "sell".
func (r TradeRecord) Side() string {
	if r.IsBuy {
		return "buy"
	}
	return "sell"
}
