package repository

import (
	"context"

	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

type revenueRow struct {
	Date    string
	Revenue decimal.Decimal
}

type sumRow struct {
	Total decimal.Decimal
}

func (r *ReportGormRepository) DailyRevenue(ctx context.Context, limit int) ([]model.DailyRevenue, error) {
	var rows []revenueRow
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("sale_date AS date, COALESCE(SUM(total), 0) AS revenue").
		Group("sale_date").
		Order("sale_date desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []model.DailyRevenue{}, err
	}

	out := make([]model.DailyRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DailyRevenue{Date: row.Date, Revenue: row.Revenue})
	}
	return out, nil
}

// 論理削除された商品も集計に含める（Tableで指定してスコープを外す）
func (r *ReportGormRepository) CategoryDistribution(ctx context.Context) ([]model.CategoryQuantity, error) {
	var rows []model.CategoryQuantity
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("products.category AS name, SUM(sale_items.quantity) AS value").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Group("products.category").
		Order("value desc").
		Order("name asc").
		Scan(&rows).Error
	if err != nil {
		return []model.CategoryQuantity{}, err
	}
	return rows, nil
}

func (r *ReportGormRepository) RevenueOnDate(ctx context.Context, date string) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "sale_date = ?", date)
}

func (r *ReportGormRepository) RevenueInMonth(ctx context.Context, month string) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "sale_month = ?", month)
}

// 該当なしは0
func (r *ReportGormRepository) sumWhere(ctx context.Context, cond string, arg string) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where(cond, arg).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
