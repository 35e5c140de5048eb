package usecase

import (
	"time"

	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
)

type ProductOutput struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
	MinStock int64   `json:"min_stock"`
	LowStock bool    `json:"low_stock"`
}

type SaleItemOutput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type SaleOutput struct {
	ID        int64            `json:"id"`
	Total     float64          `json:"total"`
	Tax       float64          `json:"tax"`
	Discount  float64          `json:"discount"`
	CreatedAt time.Time        `json:"created_at"`
	Items     []SaleItemOutput `json:"items,omitempty"`
}

type AdjustmentOutput struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	SaleID      *int64    `json:"sale_id,omitempty"`
	ActorUserID *int64    `json:"actor_user_id,omitempty"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    money(p.Price),
		Stock:    p.Stock,
		MinStock: p.MinStock,
		LowStock: p.IsLowStock(),
	}
}

// itemsがnilなら明細なし（一覧用）
func toSaleOutput(s model.Sale, items []model.SaleItem) SaleOutput {
	out := SaleOutput{
		ID:        s.ID,
		Total:     money(s.Total),
		Tax:       money(s.Tax),
		Discount:  money(s.Discount),
		CreatedAt: s.CreatedAt,
	}
	if items == nil {
		return out
	}

	out.Items = make([]SaleItemOutput, 0, len(items))
	for _, it := range items {
		out.Items = append(out.Items, SaleItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			LineTotal: money(it.LineTotal()),
		})
	}
	return out
}

func toAdjustmentOutput(a model.InventoryAdjustment) AdjustmentOutput {
	return AdjustmentOutput{
		ID:          a.ID,
		ProductID:   a.ProductID,
		SaleID:      a.SaleID,
		ActorUserID: a.ActorUserID,
		Delta:       a.Delta,
		Reason:      string(a.Reason),
		CreatedAt:   a.CreatedAt,
	}
}

// 0はnil（未ログイン操作）
func actorPtr(userID int64) *int64 {
	if userID <= 0 {
		return nil
	}
	return &userID
}
