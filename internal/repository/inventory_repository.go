package repository

import (
	"context"

	"pos/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 調整履歴作成
	CreateAdjustments(ctx context.Context, adjustments []model.InventoryAdjustment) error

	// 商品ごとの調整履歴（新しい順）
	ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error)
}
