// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/EmpoweredVote/registrar/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated sqlite database in t.TempDir(). The pool is closed
// when the test finishes.
func Open(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	gdb, err := db.Connect(db.Options{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "registrar.db"),
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if len(models) > 0 {
		if err := gdb.AutoMigrate(models...); err != nil {
			t.Fatalf("auto-migrate: %v", err)
		}
	}
	return gdb
}
