package usecase

import (
	"context"
	"net/http"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

const (
	// 日別売上の既定件数
	DefaultDailyRevenueLimit = 30
	maxDailyRevenueLimit     = 366
	// ダッシュボードに出す直近の会計数
	recentTransactionsLimit = 5
)

type ReportUsecase struct {
	reportRepo  repo.ReportRepository
	productRepo repo.ProductRepository
	saleRepo    repo.SaleRepository
	clock       Clock
}

// DI
func NewReportUsecase(
	reportRepo repo.ReportRepository,
	productRepo repo.ProductRepository,
	saleRepo repo.SaleRepository,
	clock Clock,
) *ReportUsecase {
	return &ReportUsecase{
		reportRepo:  reportRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		clock:       clock,
	}
}

type DailyRevenueOutput struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type CategoryOutput struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type StatsOutput struct {
	TodaySales         float64      `json:"todaySales"`
	MonthSales         float64      `json:"monthSales"`
	TotalProducts      int64        `json:"totalProducts"`
	LowStockCount      int64        `json:"lowStockCount"`
	RecentTransactions []SaleOutput `json:"recentTransactions"`
}

// 売上のある日だけ・新しい順。limit=0なら既定件数
func (u *ReportUsecase) DailyRevenue(ctx context.Context, limit int) ([]DailyRevenueOutput, error) {
	if limit == 0 {
		limit = DefaultDailyRevenueLimit
	}
	if limit < 0 || limit > maxDailyRevenueLimit {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	rows, err := u.reportRepo.DailyRevenue(ctx, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]DailyRevenueOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyRevenueOutput{Date: r.Date, Revenue: money(r.Revenue)})
	}
	return out, nil
}

func (u *ReportUsecase) CategoryDistribution(ctx context.Context) ([]CategoryOutput, error) {
	rows, err := u.reportRepo.CategoryDistribution(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CategoryOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryOutput{Name: r.Name, Value: r.Value})
	}
	return out, nil
}

// ダッシュボード用の集計
// 今日・今月はclockの現在時刻から決める
func (u *ReportUsecase) Stats(ctx context.Context) (StatsOutput, error) {
	now := u.clock.Now()

	today, err := u.reportRepo.RevenueOnDate(ctx, now.Format(model.SaleDateLayout))
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	month, err := u.reportRepo.RevenueInMonth(ctx, now.Format(model.SaleMonthLayout))
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	totalProducts, err := u.productRepo.Count(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	lowStock, err := u.productRepo.CountLowStock(ctx)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	recent, err := u.saleRepo.List(ctx, recentTransactionsLimit)
	if err != nil {
		return StatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := StatsOutput{
		TodaySales:         money(today),
		MonthSales:         money(month),
		TotalProducts:      totalProducts,
		LowStockCount:      lowStock,
		RecentTransactions: make([]SaleOutput, 0, len(recent)),
	}
	for _, s := range recent {
		out.RecentTransactions = append(out.RecentTransactions, toSaleOutput(s, nil))
	}
	return out, nil
}
