// internal/amm/token.go
package amm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/events"
	"github.com/rovshanmuradov/bonding-curve/internal/ledger"
)

const (
	// TokenDecimals is the precision of tokens issued by CreateToken.
	TokenDecimals = 9
	// Ограничения метаданных Metaplex
	MaxNameLength   = 32
	MaxSymbolLength = 10
)

// TokenInfo describes a freshly issued token.
type TokenInfo struct {
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

// CreateToken charges the creation fee and issues the full virtual supply of a
// new mint to the caller.
func (e *Engine) CreateToken(ctx context.Context, caller solana.PublicKey, name, symbol, offChainID string) (info *TokenInfo, err error) {
	defer e.observe(ctx, "create_token")(&err)

	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkLockdown(cfg); err != nil {
		return nil, err
	}

	name, symbol = strings.TrimSpace(name), strings.TrimSpace(symbol)
	if name == "" || len(name) > MaxNameLength || symbol == "" || len(symbol) > MaxSymbolLength {
		return nil, fmt.Errorf("invalid token metadata %q/%q: %w", name, symbol, curve.ErrInvalidInput)
	}

	mint, _, err := MintAddress(e.programID, caller, offChainID)
	if err != nil {
		return nil, err
	}

	unlock := e.mints.Lock(mint.String())
	defer unlock()

	if _, err := e.ledger.Decimals(ctx, mint); err == nil {
		return nil, fmt.Errorf("mint %s: %w", mint, curve.ErrMintInitializationFailed)
	}

	supply, err := curve.VirtualSupply(TokenDecimals)
	if err != nil {
		return nil, err
	}

	feeMint := cfg.ExchangeTokenMint
	if cfg.IsSolFee {
		feeMint = solana.SolMint
	}
	fee := []ledger.Transfer{{Mint: feeMint, From: caller, To: cfg.FeeSolCollector, Amount: cfg.CreationFees}}

	if err := e.ledger.Apply(ctx, fee...); err != nil {
		return nil, fmt.Errorf("failed to charge creation fee: %w", err)
	}

	if err := e.ledger.Mint(ctx, mint, caller, supply, TokenDecimals); err != nil {
		// Возвращаем комиссию, если выпуск не удался
		if rerr := e.ledger.Apply(context.WithoutCancel(ctx), ledger.Reverse(fee)...); rerr != nil {
			e.logger.Error("Failed to refund creation fee",
				zap.String("caller", caller.String()),
				zap.Error(rerr))
		}
		if errors.Is(err, ledger.ErrMintExists) {
			return nil, fmt.Errorf("mint %s: %w", mint, curve.ErrMintInitializationFailed)
		}
		return nil, fmt.Errorf("%w: %v", curve.ErrMintFailed, err)
	}

	info = &TokenInfo{
		Mint:        mint,
		Creator:     caller,
		Name:        name,
		Symbol:      symbol,
		OffChainID:  offChainID,
		Supply:      supply,
		Decimals:    TokenDecimals,
		CreationFee: cfg.CreationFees,
		FeeMint:     feeMint,
	}

	e.logger.Info("Token created",
		zap.String("mint", mint.String()),
		zap.String("creator", caller.String()),
		zap.String("symbol", symbol),
		zap.Uint64("supply", supply))

	e.publish(&events.TokenCreatedEvent{
		BaseEvent:   events.NewBase(events.TokenCreated),
		Mint:        info.Mint,
		Creator:     info.Creator,
		Name:        info.Name,
		Symbol:      info.Symbol,
		OffChainID:  info.OffChainID,
		Supply:      info.Supply,
		Decimals:    info.Decimals,
		CreationFee: info.CreationFee,
		FeeMint:     info.FeeMint,
	})
	return info, nil
}
