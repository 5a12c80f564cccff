// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultTradeLimit bounds ListTrades when the caller passes limit <= 0.
const DefaultTradeLimit = 100

// Store определяет интерфейс для работы с хранилищем
type Store interface {
	// Конфигурация кривой
	GetConfig(ctx context.Context) (*types.CurveConfiguration, error)
	SaveConfig(ctx context.Context, cfg *types.CurveConfiguration) error

	// Пулы
	GetPool(ctx context.Context, address solana.PublicKey) (*types.LiquidityPool, error)
	SavePool(ctx context.Context, pool *types.LiquidityPool) error
	ListPools(ctx context.Context) ([]*types.LiquidityPool, error)

	// Сделки, от новых к старым
	SaveTrade(ctx context.Context, trade *types.TradeRecord) error
	ListTrades(ctx context.Context, pool solana.PublicKey, limit, offset int) ([]*types.TradeRecord, error)

	// Миграции
	RunMigrations(ctx context.Context) error
	Close() error
}

// NormalizePage clamps limit/offset the same way for every backend.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultTradeLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
