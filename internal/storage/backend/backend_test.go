package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/groupcal/internal/config"
	"github.com/mmynk/groupcal/internal/storage/sqlite"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{StoreBackend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "nested", "g.db")}

	store, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*sqlite.SQLiteStore); !ok {
		t.Errorf("expected *sqlite.SQLiteStore, got %T", store)
	}
}

func TestOpen_Unknown(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{StoreBackend: "mongo"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
