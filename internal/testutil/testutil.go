// Package testutil provides shared test helpers for setting up data
// directories and archive databases.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/storage"
)

// TestArchive creates a temporary archive database that is automatically
// cleaned up.
func TestArchive(t *testing.T) *archive.Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	arch, err := archive.Open(filepath.Join(t.TempDir(), "archive.db"), log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { arch.Close() })
	return arch
}

// TestDataDir creates a temporary data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, store
}
