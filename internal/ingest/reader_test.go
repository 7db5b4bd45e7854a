package ingest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/storage"
)

func testReader(t *testing.T) (*Reader, *storage.FS) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReader(fs, log), fs
}

func TestLoadPending_ArrayAndEnvelope(t *testing.T) {
	r, fs := testReader(t)
	_ = fs.Write("pending/a.json", []byte(`[{"title":"one","source":"Blog A"}]`))
	_ = fs.Write("pending/b.json", []byte(`{"items":[{"title":"two","source_name":"Feed B"},{"title":"three","source":"Feed B"}]}`))

	recs, consumed, err := r.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	if len(consumed) != 2 {
		t.Fatalf("consumed = %d, want 2", len(consumed))
	}
	// Path order keeps batch ingestion deterministic.
	if recs[0].Title != "one" || recs[1].Title != "two" {
		t.Errorf("order = [%s %s ...]", recs[0].Title, recs[1].Title)
	}
	if got := recs[1].SourceLabel(); got != "Feed B" {
		t.Errorf("SourceLabel = %q, want %q", got, "Feed B")
	}
}

func TestLoadPending_QuarantinesBadDrop(t *testing.T) {
	r, fs := testReader(t)
	_ = fs.Write("pending/bad.json", []byte(`{not json`))
	_ = fs.Write("pending/good.json", []byte(`[{"title":"ok","source":"S"}]`))

	recs, consumed, err := r.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "ok" {
		t.Fatalf("records = %v", recs)
	}
	if len(consumed) != 1 {
		t.Fatalf("consumed = %v", consumed)
	}
	if _, err := fs.Read(filepath.Join(FailedDir, "bad.json")); err != nil {
		t.Errorf("bad drop not quarantined: %v", err)
	}
	if _, err := fs.Read("pending/bad.json"); err == nil {
		t.Error("bad drop still pending")
	}
}

func TestLoadPending_RejectsObjectWithoutItems(t *testing.T) {
	r, fs := testReader(t)
	_ = fs.Write("pending/odd.json", []byte(`{"records":[]}`))

	recs, consumed, err := r.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if len(recs) != 0 || len(consumed) != 0 {
		t.Errorf("records=%d consumed=%d, want 0/0", len(recs), len(consumed))
	}
}

func TestLoadPending_EmptyDir(t *testing.T) {
	r, _ := testReader(t)
	recs, consumed, err := r.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if recs != nil || consumed != nil {
		t.Errorf("expected empty results, got %v / %v", recs, consumed)
	}
}

func TestMarkProcessed(t *testing.T) {
	r, fs := testReader(t)
	_ = fs.Write("pending/a.json", []byte(`[]`))

	now := time.Date(2026, 8, 23, 7, 0, 0, 0, time.UTC)
	if err := r.MarkProcessed([]string{"pending/a.json"}, now); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if _, err := fs.Read("processed/2026-08-23/a.json"); err != nil {
		t.Errorf("processed file missing: %v", err)
	}
}
