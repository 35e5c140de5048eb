package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/pkg/logger"

	"github.com/shopspring/decimal"
)

// 1会計あたりの明細の上限
const maxSaleLines = 200

// 丸め誤差として許容する差
var totalTolerance = decimal.New(1, -2)

type SaleUsecase struct {
	tx           repo.TransactionManager
	saleRepo     repo.SaleRepository
	saleItemRepo repo.SaleItemRepository
	productRepo  repo.ProductRepository
	clock        Clock
	taxRatePct   decimal.Decimal
	log          logger.Logger
}

// DI
func NewSaleUsecase(
	tx repo.TransactionManager,
	saleRepo repo.SaleRepository,
	saleItemRepo repo.SaleItemRepository,
	productRepo repo.ProductRepository,
	clock Clock,
	taxRatePct decimal.Decimal,
	log logger.Logger,
) *SaleUsecase {
	return &SaleUsecase{
		tx:           tx,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		clock:        clock,
		taxRatePct:   taxRatePct,
		log:          log,
	}
}

// 明細1行。単価はレジ側で確定した値
type SaleLineInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// POST /salesの入力DTO
// Totalがnilならサーバー計算をそのまま使う
type RecordSaleInput struct {
	Items       []SaleLineInput
	Total       *decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	ActorUserID int64
}

func validateSaleLines(items []SaleLineInput) error {
	if len(items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "items required")
	}
	if len(items) > maxSaleLines {
		return NewHTTPError(http.StatusBadRequest, "too many items")
	}
	for _, it := range items {
		if it.ProductID <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if it.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
		if it.UnitPrice.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
	}
	return nil
}

// 合計 = Σ(単価×数量) + 税 - 値引き
func computeTotal(items []SaleLineInput, tax, discount decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Round(2).Mul(decimal.NewFromInt(it.Quantity)))
	}
	return subtotal.Add(tax).Sub(discount)
}

// 会計を1トランザクションで確定する
// 全明細の在庫減算と明細保存が揃った時だけcommit
func (u *SaleUsecase) RecordSale(ctx context.Context, in RecordSaleInput) (SaleOutput, error) {
	if err := validateSaleLines(in.Items); err != nil {
		return SaleOutput{}, err
	}
	if in.Tax.IsNegative() {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, "tax must be >= 0")
	}
	if in.Discount.IsNegative() {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, "discount must be >= 0")
	}

	tax := in.Tax.Round(2)
	discount := in.Discount.Round(2)
	total := computeTotal(in.Items, tax, discount)
	if total.IsNegative() {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, "discount exceeds total")
	}
	if in.Total != nil && in.Total.Sub(total).Abs().GreaterThan(totalTolerance) {
		return SaleOutput{}, WrapHTTPError(http.StatusBadRequest, "total mismatch", ErrTotalMismatch)
	}

	sale := model.Sale{
		Total:    total,
		Tax:      tax,
		Discount: discount,
	}
	sale.Stamp(u.clock.Now())

	var items []model.SaleItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		saleID, err := r.Sales().Create(ctx, sale)
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		sale.ID = saleID

		items = make([]model.SaleItem, 0, len(in.Items))
		adjs := make([]model.InventoryAdjustment, 0, len(in.Items))
		for _, line := range in.Items {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("find product %d: %w", line.ProductID, err)
			}

			//同一商品が複数行でも1行ずつ条件付きで減らす
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrease stock %d: %w", p.ID, err)
			}
			if !ok {
				return WrapHTTPError(http.StatusConflict,
					fmt.Sprintf("insufficient stock for product %d", p.ID), ErrInsufficientStock)
			}

			items = append(items, model.SaleItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				Quantity:            line.Quantity,
				Price:               line.UnitPrice.Round(2),
				CreatedAt:           sale.CreatedAt,
			})
			adjs = append(adjs, model.InventoryAdjustment{
				ProductID:   p.ID,
				SaleID:      &saleID,
				ActorUserID: actorPtr(in.ActorUserID),
				Delta:       -line.Quantity,
				Reason:      model.AdjustmentReasonSale,
				CreatedAt:   sale.CreatedAt,
			})
		}

		if err := r.SaleItems().CreateBulk(ctx, saleID, items); err != nil {
			return fmt.Errorf("create sale items: %w", err)
		}
		if err := r.Inventory().CreateAdjustments(ctx, adjs); err != nil {
			return fmt.Errorf("create adjustments: %w", err)
		}
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			u.log.Warnf("sale rejected: %s", he.Message)
			return SaleOutput{}, err
		}
		u.log.Errorf(err, "sale transaction rolled back")
		return SaleOutput{}, WrapHTTPError(http.StatusInternalServerError, "transaction failed",
			fmt.Errorf("%w: %w", ErrTransactionFailure, err))
	}

	u.log.Infof("sale recorded: id=%d total=%s lines=%d", sale.ID, sale.Total.StringFixed(2), len(items))
	return toSaleOutput(sale, items), nil
}

// 見積もりの明細1行
type QuoteLineInput struct {
	ProductID int64
	Quantity  int64
}

// TaxRatePctがnilならサーバー設定の税率
type QuoteInput struct {
	Items      []QuoteLineInput
	TaxRatePct *decimal.Decimal
	Discount   decimal.Decimal
}

type QuoteLineOutput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	InStock   bool    `json:"in_stock"`
}

type QuoteOutput struct {
	Lines          []QuoteLineOutput `json:"lines"`
	Subtotal       float64           `json:"subtotal"`
	TaxRatePercent float64           `json:"tax_rate_percent"`
	Tax            float64           `json:"tax"`
	Discount       float64           `json:"discount"`
	Total          float64           `json:"total"`
}

// 現在の価格で小計・税・合計を計算するだけ（在庫は変えない）
func (u *SaleUsecase) Quote(ctx context.Context, in QuoteInput) (QuoteOutput, error) {
	if len(in.Items) == 0 {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	if len(in.Items) > maxSaleLines {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "too many items")
	}
	if in.Discount.IsNegative() {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "discount must be >= 0")
	}
	rate := u.taxRatePct
	if in.TaxRatePct != nil {
		rate = *in.TaxRatePct
	}
	if rate.IsNegative() {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "tax rate must be >= 0")
	}

	lines := make([]QuoteLineOutput, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if it.Quantity <= 0 {
			return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}

		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return QuoteOutput{}, NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %d not found", it.ProductID))
		}
		if err != nil {
			return QuoteOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, QuoteLineOutput{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: money(p.Price),
			Quantity:  it.Quantity,
			LineTotal: money(lineTotal),
			InStock:   p.Stock >= it.Quantity,
		})
	}

	tax := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	discount := in.Discount.Round(2)
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		return QuoteOutput{}, NewHTTPError(http.StatusBadRequest, "discount exceeds total")
	}

	return QuoteOutput{
		Lines:          lines,
		Subtotal:       money(subtotal),
		TaxRatePercent: rate.InexactFloat64(),
		Tax:            money(tax),
		Discount:       money(discount),
		Total:          money(total),
	}, nil
}

// 新しい順。limit=0なら全件
func (u *SaleUsecase) ListSales(ctx context.Context, limit int) ([]SaleOutput, error) {
	if limit < 0 || limit > 1000 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	sales, err := u.saleRepo.List(ctx, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]SaleOutput, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleOutput(s, nil))
	}
	return out, nil
}

// 明細付きの会計1件
func (u *SaleUsecase) GetSale(ctx context.Context, saleID int64) (SaleOutput, error) {
	if saleID <= 0 {
		return SaleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sale id")
	}

	s, err := u.saleRepo.FindByID(ctx, saleID)
	if errors.Is(err, repo.ErrNotFound) {
		return SaleOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.saleItemRepo.ListBySaleID(ctx, saleID)
	if err != nil {
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.SaleItem{}
	}
	return toSaleOutput(s, items), nil
}
