// internal/storage/models/trade.go
package models

import "time"

type Trade struct {
	Record
	TradeID               string    `gorm:"uniqueIndex;not null;type:varchar(36)"`
	Pool                  string    `gorm:"index:idx_trades_pool_time,priority:1;not null;type:varchar(44)"`
	Mint                  string    `gorm:"not null;type:varchar(44)"`
	Trader                string    `gorm:"index;not null;type:varchar(44)"`
	IsBuy                 bool      `gorm:"not null"`
	AmountIn              uint64    `gorm:"type:numeric(20,0);not null"`
	AmountOut             uint64    `gorm:"type:numeric(20,0);not null"`
	Fee                   uint64    `gorm:"type:numeric(20,0);not null;default:0"`
	ReserveTokenBefore    uint64    `gorm:"type:numeric(20,0);not null"`
	ReserveTokenAfter     uint64    `gorm:"type:numeric(20,0);not null"`
	ReserveExchangeBefore uint64    `gorm:"type:numeric(20,0);not null"`
	ReserveExchangeAfter  uint64    `gorm:"type:numeric(20,0);not null"`
	ExecutedAt            time.Time `gorm:"index:idx_trades_pool_time,priority:2;not null"`
}

func (Trade) TableName() string { return "trades" }
