// internal/storage/models/config.go
package models

// CurveConfiguration is stored as a single row with a fixed key.
type CurveConfiguration struct {
	Record
	Key                 string  `gorm:"uniqueIndex;not null;type:varchar(32)"`
	FeePercentage       uint64  `gorm:"not null"`
	CreationFees        uint64  `gorm:"type:numeric(20,0);not null;default:0"`
	Proportion          float64 `gorm:"type:double precision;not null"`
	FeeCollector        string  `gorm:"not null;type:varchar(44)"`
	FeeSolCollector     string  `gorm:"not null;type:varchar(44)"`
	ExchangeTokenMint   string  `gorm:"not null;type:varchar(44)"`
	Admin               string  `gorm:"not null;type:varchar(44)"`
	InitialTokenForPool uint64  `gorm:"type:numeric(20,0);not null"`
	IsSolFee            bool    `gorm:"not null;default:false"`
	IsLockdown          bool    `gorm:"not null;default:false"`
	Bump                uint8   `gorm:"not null"`
}

func (CurveConfiguration) TableName() string { return "curve_configurations" }
