package repository

import (
	"context"

	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 確定済みの会計を読むだけの集計クエリ
type ReportRepository interface {
	// sale_date単位の売上（新しい順）
	DailyRevenue(ctx context.Context, limit int) ([]model.DailyRevenue, error)
	// カテゴリ別の販売数量
	CategoryDistribution(ctx context.Context) ([]model.CategoryQuantity, error)
	// YYYY-MM-DD と一致する会計の合計
	RevenueOnDate(ctx context.Context, date string) (decimal.Decimal, error)
	// YYYY-MM と一致する会計の合計
	RevenueInMonth(ctx context.Context, month string) (decimal.Decimal, error)
}
