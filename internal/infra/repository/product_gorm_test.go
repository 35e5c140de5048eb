package repository_test

import (
	"context"
	"testing"

	"pos/internal/domain/model"
	infraRepo "pos/internal/infra/repository"
	repo "pos/internal/repository"
	"pos/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T, r *infraRepo.ProductGormRepository, products ...model.Product) []model.Product {
	t.Helper()
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		created, err := r.Create(context.Background(), p)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestProductGorm_List_SearchAndLowStock(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewProductGormRepository(testutil.NewSQLiteDB(t))

	seedProducts(t, r,
		model.Product{Name: "Espresso", Category: "Coffee", Price: decimal.RequireFromString("3.50"), Stock: 20, MinStock: 5},
		model.Product{Name: "Green Tea", Category: "Tea", Price: decimal.RequireFromString("2.00"), Stock: 3, MinStock: 5},
		model.Product{Name: "Latte", Category: "coffee", Price: decimal.RequireFromString("4.25"), Stock: 5, MinStock: 5},
	)

	all, err := r.List(ctx, repo.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	coffee, err := r.List(ctx, repo.ProductListQuery{Q: "COFFEE"})
	require.NoError(t, err)
	require.Len(t, coffee, 2)
	assert.Equal(t, "Espresso", coffee[0].Name)
	assert.Equal(t, "Latte", coffee[1].Name)

	low, err := r.List(ctx, repo.ProductListQuery{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Green Tea", low[0].Name)
	assert.Equal(t, "Latte", low[1].Name)

	n, err := r.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestProductGorm_Update_NotFound(t *testing.T) {
	r := infraRepo.NewProductGormRepository(testutil.NewSQLiteDB(t))

	err := r.Update(context.Background(), model.Product{ID: 999, Name: "x", Price: decimal.Zero})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGorm_SoftDelete_HidesProduct(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewProductGormRepository(testutil.NewSQLiteDB(t))

	ps := seedProducts(t, r, model.Product{Name: "Scone", Category: "Bakery", Price: decimal.NewFromInt(2), Stock: 4, MinStock: 1})

	require.NoError(t, r.SoftDelete(ctx, ps[0].ID))

	_, err := r.FindByID(ctx, ps[0].ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	//2回目は対象なし
	assert.ErrorIs(t, r.SoftDelete(ctx, ps[0].ID), repo.ErrNotFound)
}
