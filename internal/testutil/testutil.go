// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edugamify/classroom-api/internal/db"
	"github.com/edugamify/classroom-api/internal/repository/dao"
)

// DB returns a migrated SQLite database living in the test's temp dir.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	conn, err := db.OpenSQLite(filepath.Join(tb.TempDir(), "test.db"))
	require.NoError(tb, err)
	conn.Logger = conn.Logger.LogMode(gormlogger.Silent)
	require.NoError(tb, dao.InitTables(conn))

	tb.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}
