// internal/api/types.go
package api

import (
	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ErrorResponse is the body of every non-2xx reply. Code is the program error
// code, zero for transport-level errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code"`
	Name  string `json:"name,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// CreatePoolRequest opens a pool for Token.
type CreatePoolRequest struct {
	Token string `json:"token"`
}

// TradeRequest is the body of buy and sell.
// When Slippage is set and MinOutputAmount is zero, the floor is derived
// from a fresh preview.
type TradeRequest struct {
	Amount          uint64                `json:"amount"`
	MinOutputAmount uint64                `json:"min_output_amount"`
	Slippage        *types.SlippageConfig `json:"slippage,omitempty"`
}

// CreateTokenRequest issues a new mint.
type CreateTokenRequest struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	OffChainID string `json:"off_chain_id"`
}

// BuyQuoteResponse carries the raw curve quote and, when executable, the full plan.
type BuyQuoteResponse struct {
	AmountIn  uint64         `json:"amount_in"`
	AmountOut uint64         `json:"amount_out"`
	Preview   *curve.BuyPlan `json:"preview,omitempty"`
}

// SellQuoteResponse carries the gross curve quote and the fee-adjusted plan.
type SellQuoteResponse struct {
	AmountIn  uint64          `json:"amount_in"`
	AmountOut uint64          `json:"amount_out"`
	Preview   *curve.SellPlan `json:"preview,omitempty"`
}

// MarketCapResponse is returned by /market-cap.
type MarketCapResponse struct {
	Pool      string `json:"pool"`
	MarketCap uint64 `json:"market_cap"`
}

// TradesResponse is a page of trade history.
type TradesResponse struct {
	Pool   string               `json:"pool"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Trades []*types.TradeRecord `json:"trades"`
}
