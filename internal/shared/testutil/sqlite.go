// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"go-leave/internal/shared/connection"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a private in-memory database and migrates models.
// A single connection keeps the database alive and serializes transactions,
// so concurrent callers queue behind each other like row locks would.
func NewSQLiteDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), connection.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}
