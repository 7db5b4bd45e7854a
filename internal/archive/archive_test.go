package archive

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

var archivedAt = time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := Open(path, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func entry(id string, score int) models.ArchiveEntry {
	return models.ArchiveEntry{
		ID:            id,
		Title:         "Entry " + id,
		URL:           "https://example.com/" + id,
		Source:        "Source A",
		SourceType:    "article",
		SourceTier:    2,
		ArchivedAt:    archivedAt,
		PriorityScore: score,
		SignalType:    "Market Signal",
		WhyItMatters:  "matters",
		Topics:        []models.Topic{{Key: "earnings", Label: "Earnings", Weight: 0.8}},
		Entities:      []models.Entity{{Name: "AppLovin", Type: "competitor", Watchlist: true}},
	}
}

func TestMergeAndList(t *testing.T) {
	st := testStore(t)
	added, err := st.Merge([]models.ArchiveEntry{entry("a", 90), entry("b", 80)})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	got, err := st.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
	// Round trip of nested fields.
	e := got[0]
	if len(e.Topics) != 1 || e.Topics[0].Key != "earnings" {
		t.Errorf("topics = %v", e.Topics)
	}
	if len(e.Entities) != 1 || !e.Entities[0].Watchlist {
		t.Errorf("entities = %v", e.Entities)
	}
	if !e.ArchivedAt.Equal(archivedAt) {
		t.Errorf("archived_at = %v, want %v", e.ArchivedAt, archivedAt)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	st := testStore(t)
	batch := []models.ArchiveEntry{entry("a", 90), entry("b", 80)}

	if _, err := st.Merge(batch); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	added, err := st.Merge(batch)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if added != 0 {
		t.Errorf("second merge added %d, want 0", added)
	}
	n, _ := st.Count()
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestMerge_NeverUpdatesExisting(t *testing.T) {
	st := testStore(t)
	first := entry("a", 90)
	if _, err := st.Merge([]models.ArchiveEntry{first}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	changed := first
	changed.Title = "rewritten"
	changed.PriorityScore = 10
	if _, err := st.Merge([]models.ArchiveEntry{changed}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := st.Get("a")
	if err != nil || got == nil {
		t.Fatalf("Get: %v / %v", got, err)
	}
	if got.Title != "Entry a" || got.PriorityScore != 90 {
		t.Errorf("entry mutated: %+v", got)
	}
}

func TestPrune(t *testing.T) {
	st := testStore(t)
	var batch []models.ArchiveEntry
	for i := 0; i < 10; i++ {
		batch = append(batch, entry(fmt.Sprintf("e%d", i), 50+i))
	}
	if _, err := st.Merge(batch); err != nil {
		t.Fatalf("merge: %v", err)
	}

	evicted, err := st.Prune(4)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if evicted != 6 {
		t.Errorf("evicted = %d, want 6", evicted)
	}
	got, _ := st.List(Filter{})
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	// Highest priorities survive.
	if got[0].PriorityScore != 59 || got[3].PriorityScore != 56 {
		t.Errorf("survivors = %d..%d, want 59..56", got[0].PriorityScore, got[3].PriorityScore)
	}
}

func TestPrune_UnderCapIsNoop(t *testing.T) {
	st := testStore(t)
	_, _ = st.Merge([]models.ArchiveEntry{entry("a", 90)})
	evicted, err := st.Prune(300)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if evicted != 0 {
		t.Errorf("evicted = %d, want 0", evicted)
	}
}

func TestList_Filters(t *testing.T) {
	st := testStore(t)
	a := entry("a", 90)
	b := entry("b", 60)
	b.Source = "Source B"
	b.SignalType = "Policy"
	c := entry("c", 95)
	c.IsHSI = true
	if _, err := st.Merge([]models.ArchiveEntry{a, b, c}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := st.List(Filter{MinScore: 85})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("min-score rows = %d, want 2", len(got))
	}

	got, _ = st.List(Filter{Source: "Source B"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("source filter = %v", got)
	}

	got, _ = st.List(Filter{SignalType: "Policy"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("signal filter = %v", got)
	}

	got, _ = st.List(Filter{HSIOnly: true})
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("hsi filter = %v", got)
	}

	got, _ = st.List(Filter{Limit: 1})
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("limit filter = %v", got)
	}
}

func TestGet_Absent(t *testing.T) {
	st := testStore(t)
	got, err := st.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestSearch(t *testing.T) {
	st := testStore(t)
	a := entry("a", 90)
	a.Title = "AppLovin earnings beat expectations"
	b := entry("b", 70)
	b.Title = "Privacy Sandbox timeline slips"
	if _, err := st.Merge([]models.ArchiveEntry{a, b}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := st.Search("earnings", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("search = %v", got)
	}
}

func TestOpen_CorruptRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database, definitely"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := Open(path, log)
	if err != nil {
		t.Fatalf("Open after corruption: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("corrupt file not moved aside: %v", err)
	}
	n, err := st.Count()
	if err != nil || n != 0 {
		t.Errorf("fresh archive count = %d (%v), want 0", n, err)
	}
}
