package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 会計の明細
// 会計時点の価格と商品名を必ず保存（商品の変更・削除の影響を受けない）。
type SaleItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID              int64           `gorm:"not null;index" json:"sale_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null;column:product_name" json:"product_name"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	Price               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// 明細の小計
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
