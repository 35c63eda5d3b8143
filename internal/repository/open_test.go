package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mr1hm/go-crisis-alerts/internal/config"
)

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "alerts.db")

	backend, err := Open(config.StorageConfig{Backend: config.BackendSQLite, DBPath: path, Key: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	if err := backend.Save(ctx, testAlerts()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	assertSameAlerts(t, testAlerts(), got)
}

func TestOpen_Memory(t *testing.T) {
	backend, err := Open(config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := backend.(*MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", backend)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(config.StorageConfig{Backend: "etcd"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
