package repository

import (
	"context"

	"pos/internal/domain/model"
)

type SaleRepository interface {
	Create(ctx context.Context, sale model.Sale) (int64, error)
	FindByID(ctx context.Context, saleID int64) (model.Sale, error)
	// 新しい順。limit<=0なら全件
	List(ctx context.Context, limit int) ([]model.Sale, error)
}

type SaleItemRepository interface {
	CreateBulk(ctx context.Context, saleID int64, items []model.SaleItem) error
	ListBySaleID(ctx context.Context, saleID int64) ([]model.SaleItem, error)
}
