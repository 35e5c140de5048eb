package repository

import (
	"context"

	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	sales     repo.SaleRepository
	saleItems repo.SaleItemRepository
	products  repo.ProductRepository
	inventory repo.InventoryRepository
}

func (r *txReposGorm) Sales() repo.SaleRepository          { return r.sales }
func (r *txReposGorm) SaleItems() repo.SaleItemRepository  { return r.saleItems }
func (r *txReposGorm) Products() repo.ProductRepository    { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			sales:     NewSaleGormRepository(tx),
			saleItems: NewSaleItemGormRepository(tx),
			products:  NewProductGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
		}
		return fn(r)
	})
}
