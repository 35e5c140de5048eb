package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	tx            repo.TransactionManager
	clock         Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	tx repo.TransactionManager,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		tx:            tx,
		clock:         clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Q            string
	LowStockOnly bool
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	if len(in.Q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Q:            strings.TrimSpace(in.Q),
		LowStockOnly: in.LowStockOnly,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		out = append(out, toProductOutput(p))
	}
	return out, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductOutput(p), nil
}

// 作成・更新の入力。MinStockがnilなら既定値（更新時は現在値）
type ProductInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int64
	MinStock *int64
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if len(in.Category) > 100 {
		return NewHTTPError(http.StatusBadRequest, "category too long")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "min_stock must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	if err := validateProductInput(in); err != nil {
		return 0, err
	}

	minStock := model.DefaultMinStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}

	now := u.clock.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		Price:     in.Price.Round(2),
		Stock:     in.Stock,
		MinStock:  minStock,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p.ID, nil
}

// 在庫数が変わったら差分を手動調整として残す（同一Tx）
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actorUserID int64, productID int64, in ProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return err
	}

	now := u.clock.Now()
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前（before）
		current, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}

		minStock := current.MinStock
		if in.MinStock != nil {
			minStock = *in.MinStock
		}

		if err := r.Products().Update(ctx, model.Product{
			ID:        productID,
			Name:      strings.TrimSpace(in.Name),
			Category:  strings.TrimSpace(in.Category),
			Price:     in.Price.Round(2),
			Stock:     in.Stock,
			MinStock:  minStock,
			UpdatedAt: now,
		}); err != nil {
			return err
		}

		delta := in.Stock - current.Stock
		if delta == 0 {
			return nil
		}
		return r.Inventory().CreateAdjustments(ctx, []model.InventoryAdjustment{{
			ProductID:   productID,
			ActorUserID: actorPtr(actorUserID),
			Delta:       delta,
			Reason:      model.AdjustmentReasonManual,
			CreatedAt:   now,
		}})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 論理削除。過去の明細はスナップショットで残る
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) ListAdjustments(ctx context.Context, productID int64, limit int) ([]AdjustmentOutput, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if limit < 0 || limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	adjs, err := u.inventoryRepo.ListAdjustments(ctx, productID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AdjustmentOutput, 0, len(adjs))
	for _, a := range adjs {
		out = append(out, toAdjustmentOutput(a))
	}
	return out, nil
}
