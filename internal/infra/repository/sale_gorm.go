package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// ヘッダだけ作る（明細はSaleItemGormRepositoryで作成）
func (r *SaleGormRepository) Create(ctx context.Context, sale model.Sale) (int64, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&sale).Error; err != nil {
		return 0, err
	}
	return sale.ID, nil
}

func (r *SaleGormRepository) FindByID(ctx context.Context, saleID int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Where("id = ?", saleID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, limit int) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var sales []model.Sale
	if err := q.Find(&sales).Error; err != nil {
		return []model.Sale{}, err
	}
	return sales, nil
}
