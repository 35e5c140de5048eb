package repository

import (
	"context"

	"pos/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustments(ctx context.Context, adjs []model.InventoryAdjustment) error {
	if len(adjs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&adjs).Error; err != nil {
		return err
	}
	return nil
}

func (r *InventoryGormRepository) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var adjs []model.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Limit(limit).
		Find(&adjs).Error
	if err != nil {
		return []model.InventoryAdjustment{}, err
	}
	return adjs, nil
}
