package auth

import "time"

// 現在の時間
type Clock interface {
	Now() time.Time
}

// IDを作る約束（JWTのjtiに使う）
type IDGenerator interface {
	NewID() string
}

// 入力値の検証。usecaseはvalidatorの実装を知らない
type CredentialValidator interface {
	ValidateLogin(username string, password string) error
	ValidateSeed(username string, password string) error
}
