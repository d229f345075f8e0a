// Package dbtest opens throwaway in-memory SQLite databases for repository tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/coosmos/Hotel-Management-Backend/pkg/db"
)

// Open returns a private in-memory database migrated with models. The pool is
// pinned to one connection so the database lives as long as the test and
// transactions serialize on it.
func Open(t testing.TB, models ...any) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if len(models) > 0 {
		if err := gdb.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return gdb
}
