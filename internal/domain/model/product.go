package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 発注点の既定値
const DefaultMinStock int64 = 5

type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  string          `gorm:"type:varchar(100);not null;default:'';index" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock     int64           `gorm:"not null;default:0" json:"stock"`
	MinStock  int64           `gorm:"not null" json:"min_stock"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// 在庫が発注点以下か
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
