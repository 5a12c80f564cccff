// internal/ledger/memory.go
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
)

type accountKey struct {
	mint  solana.PublicKey
	owner solana.PublicKey
}

// Memory is an in-process ledger. Native SOL is modeled as solana.SolMint.
type Memory struct {
	mu       sync.RWMutex
	balances map[accountKey]uint64
	decimals map[solana.PublicKey]uint8
	logger   *zap.Logger
}

// NewMemory creates an empty ledger that already knows the native mint.
func NewMemory(logger *zap.Logger) *Memory {
	return &Memory{
		balances: make(map[accountKey]uint64),
		decimals: map[solana.PublicKey]uint8{solana.SolMint: NativeDecimals},
		logger:   logger.Named("ledger"),
	}
}

// RegisterMint makes an externally issued mint known to the ledger.
func (m *Memory) RegisterMint(mint solana.PublicKey, decimals uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decimals[mint] = decimals
}

// Credit issues amount out of thin air; used for airdrops and fixtures.
func (m *Memory) Credit(mint, owner solana.PublicKey, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.decimals[mint]; !ok {
		return fmt.Errorf("credit %s: %w", mint, ErrUnknownMint)
	}
	k := accountKey{mint, owner}
	next := m.balances[k] + amount
	if next < m.balances[k] {
		return curve.ErrOverflowOrUnderflowOccurred
	}
	m.balances[k] = next
	return nil
}

func (m *Memory) Apply(ctx context.Context, transfers ...Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Сначала проверяем весь пакет на рабочей копии затронутых счетов
	working := make(map[accountKey]uint64)
	get := func(k accountKey) uint64 {
		if v, ok := working[k]; ok {
			return v
		}
		return m.balances[k]
	}

	for _, t := range transfers {
		if t.Amount == 0 {
			continue
		}
		if _, ok := m.decimals[t.Mint]; !ok {
			return fmt.Errorf("transfer %s: %w", t, ErrUnknownMint)
		}
		from := accountKey{t.Mint, t.From}
		to := accountKey{t.Mint, t.To}

		fromBal := get(from)
		if fromBal < t.Amount {
			return fmt.Errorf("transfer %s (balance %d): %w", t, fromBal, curve.ErrInsufficientFunds)
		}
		working[from] = fromBal - t.Amount

		toBal := get(to)
		if toBal+t.Amount < toBal {
			return fmt.Errorf("transfer %s: %w", t, curve.ErrOverflowOrUnderflowOccurred)
		}
		working[to] = toBal + t.Amount
	}

	for k, v := range working {
		m.balances[k] = v
	}

	m.logger.Debug("Transfers applied", zap.Int("count", len(transfers)))
	return nil
}

func (m *Memory) Balance(_ context.Context, mint, owner solana.PublicKey) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.decimals[mint]; !ok {
		return 0, fmt.Errorf("balance of %s: %w", mint, ErrUnknownMint)
	}
	return m.balances[accountKey{mint, owner}], nil
}

func (m *Memory) Decimals(_ context.Context, mint solana.PublicKey) (uint8, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.decimals[mint]
	if !ok {
		return 0, fmt.Errorf("decimals of %s: %w", mint, ErrUnknownMint)
	}
	return d, nil
}

func (m *Memory) Mint(_ context.Context, mint, to solana.PublicKey, amount uint64, decimals uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.decimals[mint]; ok {
		return fmt.Errorf("mint %s: %w", mint, ErrMintExists)
	}
	m.decimals[mint] = decimals
	m.balances[accountKey{mint, to}] = amount

	m.logger.Info("Mint created",
		zap.String("mint", mint.String()),
		zap.String("to", to.String()),
		zap.Uint64("amount", amount),
		zap.Uint8("decimals", decimals))
	return nil
}
