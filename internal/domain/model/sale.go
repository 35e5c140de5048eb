package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 日付・月の文字列形式（集計のキー）
const (
	SaleDateLayout  = "2006-01-02"
	SaleMonthLayout = "2006-01"
)

// 会計1回分のヘッダ。作成後は更新しない。
type Sale struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Tax      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`

	// created_atから導出（YYYY-MM-DD / YYYY-MM）
	SaleDate  string `gorm:"type:varchar(10);not null;index" json:"sale_date"`
	SaleMonth string `gorm:"type:varchar(7);not null;index" json:"sale_month"`

	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	Items     []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// 時刻から集計用の日付・月を埋める
func (s *Sale) Stamp(at time.Time) {
	s.CreatedAt = at
	s.SaleDate = at.Format(SaleDateLayout)
	s.SaleMonth = at.Format(SaleMonthLayout)
}
