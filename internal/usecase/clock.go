package usecase

import "time"

// 現在の時間（テストでは固定値を注入）
type Clock interface {
	Now() time.Time
}
