package db

import (
	"fmt"
	"time"

	"pos/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// DSNはpgxで先に解釈する（不正なら接続前にエラー）
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connCfg)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gormDB, nil
}

// Migrate はテーブルを作成・更新する。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.InventoryAdjustment{},
	)
}
