// Package testutil provides shared helpers for tests that need a database
// or payload files.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/evgengiga/dashbord/internal/storage"
)

// SetupTestStorage creates a migrated in-memory database that is closed when
// the test ends.
func SetupTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return store
}

// WritePayload writes a dashboard payload into a fresh temp directory and
// returns the file path.
func WritePayload(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dashboard.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	return path
}
