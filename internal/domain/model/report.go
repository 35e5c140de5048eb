package model

import "github.com/shopspring/decimal"

// 日別売上（1行 = 1日）
type DailyRevenue struct {
	Date    string
	Revenue decimal.Decimal
}

// カテゴリ別の販売数量
type CategoryQuantity struct {
	Name  string
	Value int64
}
