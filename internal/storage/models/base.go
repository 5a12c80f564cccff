// internal/storage/models/base.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Record holds the bookkeeping columns shared by every table.
// gorm.DeletedAt включает мягкое удаление: Delete ставит метку,
// обычные запросы такие строки не видят.
type Record struct {
	ID        uint           `gorm:"primarykey"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Deleted reports whether the row was soft-deleted.
func (r Record) Deleted() bool {
	return r.DeletedAt.Valid
}
