package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pos/internal/domain/model"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/testutil"
	"pos/internal/usecase"
	"pos/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	db       *gorm.DB
	uc       *usecase.SaleUsecase
	products *infraRepo.ProductGormRepository
}

func newSaleFixture(t *testing.T) saleFixture {
	t.Helper()
	gormDB := testutil.NewSQLiteDB(t)
	products := infraRepo.NewProductGormRepository(gormDB)
	uc := usecase.NewSaleUsecase(
		infraRepo.NewTxManagerGorm(gormDB),
		infraRepo.NewSaleGormRepository(gormDB),
		infraRepo.NewSaleItemGormRepository(gormDB),
		products,
		fixedClock{now: testNow},
		decimal.NewFromInt(10),
		logger.NewNopLogger(),
	)
	return saleFixture{db: gormDB, uc: uc, products: products}
}

func (f saleFixture) addProduct(t *testing.T, name, category, price string, stock int64) int64 {
	t.Helper()
	p, err := f.products.Create(context.Background(), model.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		MinStock: model.DefaultMinStock,
	})
	require.NoError(t, err)
	return p.ID
}

func (f saleFixture) stock(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f saleFixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// =====================
// RecordSale
// =====================

func TestSaleUsecase_RecordSale_StoresServerTotal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	id := f.addProduct(t, "Espresso", "Coffee", "10", 5)

	out, err := f.uc.RecordSale(ctx, usecase.RecordSaleInput{
		Items:    []usecase.SaleLineInput{{ProductID: id, Quantity: 2, UnitPrice: dec("10")}},
		Total:    decPtr("21"),
		Tax:      dec("2"),
		Discount: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 21.0, out.Total)
	assert.Equal(t, 2.0, out.Tax)
	assert.Equal(t, 1.0, out.Discount)
	assert.Equal(t, int64(3), f.stock(t, id))

	var sale model.Sale
	require.NoError(t, f.db.First(&sale, out.ID).Error)
	assert.Equal(t, "21.00", sale.Total.StringFixed(2))
	assert.Equal(t, "2026-06-15", sale.SaleDate)
	assert.Equal(t, "2026-06", sale.SaleMonth)

	var adjs []model.InventoryAdjustment
	require.NoError(t, f.db.Find(&adjs).Error)
	if assert.Len(t, adjs, 1) {
		assert.Equal(t, int64(-2), adjs[0].Delta)
		assert.Equal(t, model.AdjustmentReasonSale, adjs[0].Reason)
		assert.Equal(t, out.ID, *adjs[0].SaleID)
	}
}

func TestSaleUsecase_RecordSale_TotalOmitted(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Latte", "Coffee", "4.25", 10)
	b := f.addProduct(t, "Bagel", "Bakery", "2.10", 10)

	out, err := f.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{
			{ProductID: a, Quantity: 2, UnitPrice: dec("4.25")},
			{ProductID: b, Quantity: 1, UnitPrice: dec("2.10")},
		},
		Tax: dec("1.06"),
	})
	require.NoError(t, err)
	assert.Equal(t, 11.66, out.Total)
	if assert.Len(t, out.Items, 2) {
		assert.Equal(t, "Latte", out.Items[0].Name)
		assert.Equal(t, 8.5, out.Items[0].LineTotal)
	}
}

func TestSaleUsecase_RecordSale_TotalMismatch(t *testing.T) {
	f := newSaleFixture(t)
	id := f.addProduct(t, "Espresso", "Coffee", "10", 5)

	_, err := f.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{{ProductID: id, Quantity: 2, UnitPrice: dec("10")}},
		Total: decPtr("25"),
		Tax:   dec("2"),
	})
	assertHTTPStatus(t, err, 400, "total mismatch")
	assert.True(t, errors.Is(err, usecase.ErrTotalMismatch))
	assert.Equal(t, int64(5), f.stock(t, id))
	assert.Equal(t, int64(0), f.count(t, &model.Sale{}))
}

func TestSaleUsecase_RecordSale_Validation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   usecase.RecordSaleInput
		msg  string
	}{
		{"empty", usecase.RecordSaleInput{}, "items required"},
		{"zero qty", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 1, Quantity: 0}}}, "quantity must be > 0"},
		{"bad id", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 0, Quantity: 1}}}, "invalid product id"},
		{"negative price", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 1, Quantity: 1, UnitPrice: dec("-1")}}}, "price must be >= 0"},
		{"negative tax", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 1, Quantity: 1}}, Tax: dec("-1")}, "tax must be >= 0"},
		{"negative discount", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 1, Quantity: 1}}, Discount: dec("-1")}, "discount must be >= 0"},
		{"discount too big", usecase.RecordSaleInput{Items: []usecase.SaleLineInput{{ProductID: 1, Quantity: 1, UnitPrice: dec("1")}}, Discount: dec("5")}, "discount exceeds total"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordSale(ctx, tc.in)
			assertHTTPStatus(t, err, 400, tc.msg)
		})
	}
	assert.Equal(t, int64(0), f.count(t, &model.Sale{}))
}

func TestSaleUsecase_RecordSale_Oversell_RollsBack(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Espresso", "Coffee", "3", 10)
	b := f.addProduct(t, "Muffin", "Bakery", "2", 1)

	_, err := f.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{
			{ProductID: a, Quantity: 2, UnitPrice: dec("3")},
			{ProductID: b, Quantity: 2, UnitPrice: dec("2")},
		},
	})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.True(t, errors.Is(err, usecase.ErrInsufficientStock))

	//1行目の減算も戻っている
	assert.Equal(t, int64(10), f.stock(t, a))
	assert.Equal(t, int64(1), f.stock(t, b))
	assert.Equal(t, int64(0), f.count(t, &model.Sale{}))
	assert.Equal(t, int64(0), f.count(t, &model.SaleItem{}))
	assert.Equal(t, int64(0), f.count(t, &model.InventoryAdjustment{}))
}

func TestSaleUsecase_RecordSale_SameProductTwice_ChecksCombinedStock(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Espresso", "Coffee", "3", 3)

	_, err := f.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{
			{ProductID: a, Quantity: 2, UnitPrice: dec("3")},
			{ProductID: a, Quantity: 2, UnitPrice: dec("3")},
		},
	})
	assert.True(t, errors.Is(err, usecase.ErrInsufficientStock))
	assert.Equal(t, int64(3), f.stock(t, a))
}

func TestSaleUsecase_RecordSale_MissingProductOnNthItem_TransactionFailure(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Espresso", "Coffee", "3", 10)
	b := f.addProduct(t, "Latte", "Coffee", "4", 10)

	_, err := f.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{
			{ProductID: a, Quantity: 1, UnitPrice: dec("3")},
			{ProductID: b, Quantity: 1, UnitPrice: dec("4")},
			{ProductID: 9999, Quantity: 1, UnitPrice: dec("1")},
		},
	})
	assertHTTPStatus(t, err, 500, "transaction failed")
	assert.True(t, errors.Is(err, usecase.ErrTransactionFailure))

	assert.Equal(t, int64(10), f.stock(t, a))
	assert.Equal(t, int64(10), f.stock(t, b))
	assert.Equal(t, int64(0), f.count(t, &model.Sale{}))
	assert.Equal(t, int64(0), f.count(t, &model.SaleItem{}))
	assert.Equal(t, int64(0), f.count(t, &model.InventoryAdjustment{}))
}

func TestSaleUsecase_RecordSale_StockConservation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Espresso", "Coffee", "3", 20)
	b := f.addProduct(t, "Scone", "Bakery", "2.5", 20)

	carts := [][]usecase.SaleLineInput{
		{{ProductID: a, Quantity: 3, UnitPrice: dec("3")}},
		{{ProductID: a, Quantity: 1, UnitPrice: dec("3")}, {ProductID: b, Quantity: 4, UnitPrice: dec("2.5")}},
		{{ProductID: b, Quantity: 2, UnitPrice: dec("2.5")}, {ProductID: a, Quantity: 2, UnitPrice: dec("3")}},
	}
	for _, items := range carts {
		_, err := f.uc.RecordSale(ctx, usecase.RecordSaleInput{Items: items})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(14), f.stock(t, a))
	assert.Equal(t, int64(14), f.stock(t, b))

	var sold struct{ Qty int64 }
	require.NoError(t, f.db.Model(&model.SaleItem{}).Select("SUM(quantity) AS qty").Where("product_id = ?", a).Scan(&sold).Error)
	assert.Equal(t, int64(6), sold.Qty)
}

// =====================
// Quote
// =====================

func TestSaleUsecase_Quote_UsesServerPricesAndDefaultRate(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Espresso", "Coffee", "10", 1)

	out, err := f.uc.Quote(context.Background(), usecase.QuoteInput{
		Items:    []usecase.QuoteLineInput{{ProductID: a, Quantity: 2}},
		Discount: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, out.Subtotal)
	assert.Equal(t, 10.0, out.TaxRatePercent)
	assert.Equal(t, 2.0, out.Tax)
	assert.Equal(t, 21.0, out.Total)
	if assert.Len(t, out.Lines, 1) {
		assert.False(t, out.Lines[0].InStock)
	}

	//在庫は変わらない
	assert.Equal(t, int64(1), f.stock(t, a))
	assert.Equal(t, int64(0), f.count(t, &model.Sale{}))
}

func TestSaleUsecase_Quote_CustomRateAndMissingProduct(t *testing.T) {
	f := newSaleFixture(t)
	a := f.addProduct(t, "Tea", "Tea", "3.33", 5)

	out, err := f.uc.Quote(context.Background(), usecase.QuoteInput{
		Items:      []usecase.QuoteLineInput{{ProductID: a, Quantity: 3}},
		TaxRatePct: decPtr("8"),
	})
	require.NoError(t, err)
	assert.Equal(t, 9.99, out.Subtotal)
	assert.Equal(t, 0.8, out.Tax)
	assert.Equal(t, 10.79, out.Total)

	_, err = f.uc.Quote(context.Background(), usecase.QuoteInput{
		Items: []usecase.QuoteLineInput{{ProductID: 777, Quantity: 1}},
	})
	assertHTTPStatus(t, err, 404, "product 777 not found")
}

// =====================
// ListSales / GetSale
// =====================

func TestSaleUsecase_GetSale_KeepsSnapshotAfterProductDelete(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Seasonal Cake", "Bakery", "6.5", 4)

	rec, err := f.uc.RecordSale(ctx, usecase.RecordSaleInput{
		Items: []usecase.SaleLineInput{{ProductID: a, Quantity: 2, UnitPrice: dec("6.5")}},
	})
	require.NoError(t, err)
	require.NoError(t, f.products.SoftDelete(ctx, a))

	got, err := f.uc.GetSale(ctx, rec.ID)
	require.NoError(t, err)
	if assert.Len(t, got.Items, 1) {
		assert.Equal(t, "Seasonal Cake", got.Items[0].Name)
		assert.Equal(t, 6.5, got.Items[0].Price)
		assert.Equal(t, int64(2), got.Items[0].Quantity)
	}

	list, err := f.uc.ListSales(ctx, 0)
	require.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, 13.0, list[0].Total)
	}

	_, err = f.uc.GetSale(ctx, rec.ID+100)
	assertHTTPStatus(t, err, 404, "not found")
}

func TestSaleUsecase_ListSales_InvalidLimit(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.ListSales(context.Background(), -1)
	assertHTTPStatus(t, err, 400, "invalid limit")
}
