// Package test provides a disposable SQLite-backed store for tests.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/askdesk/askdesk/internal/profile"
	"github.com/askdesk/askdesk/store"
	"github.com/askdesk/askdesk/store/db"
)

// NewTestingStore creates a migrated store on a throwaway SQLite file.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "askdesk_test.db"),
	}

	driver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ts := store.New(driver, testProfile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return ts
}
