// internal/storage/models/pool.go
package models

// LiquidityPool is the relational row of a pool. Amounts are numeric(20,0)
// so the full uint64 range fits.
type LiquidityPool struct {
	Record
	Address         string `gorm:"uniqueIndex;not null;type:varchar(44)"`
	Creator         string `gorm:"index;not null;type:varchar(44)"`
	Token           string `gorm:"index;not null;type:varchar(44)"`
	ExchangeToken   string `gorm:"not null;type:varchar(44)"`
	TotalSupply     uint64 `gorm:"type:numeric(20,0);not null;default:0"`
	ReserveToken    uint64 `gorm:"type:numeric(20,0);not null;default:0"`
	ReserveExchange uint64 `gorm:"type:numeric(20,0);not null;default:0"`
	Bump            uint8  `gorm:"not null"`
}

func (LiquidityPool) TableName() string { return "liquidity_pools" }
