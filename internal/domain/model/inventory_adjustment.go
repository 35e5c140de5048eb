package model

import "time"

type AdjustmentReason string

const (
	AdjustmentReasonSale   AdjustmentReason = "sale"
	AdjustmentReasonManual AdjustmentReason = "manual"
)

//在庫増減の履歴

type InventoryAdjustment struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64            `gorm:"not null;index" json:"product_id"`
	SaleID      *int64           `gorm:"index" json:"sale_id,omitempty"`
	ActorUserID *int64           `gorm:"index" json:"actor_user_id,omitempty"`
	Delta       int64            `gorm:"not null" json:"delta"`
	Reason      AdjustmentReason `gorm:"type:varchar(50);not null" json:"reason"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
}
