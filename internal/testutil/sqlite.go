// Package testutil opens throwaway databases for tests.
package testutil

import (
	"testing"

	"pos/internal/infra/db"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLiteDB は移行済みのインメモリDBを返す。
// 接続は1本だけ（:memory:は接続ごとに別DBになるため）。
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}
