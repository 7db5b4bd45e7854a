package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/apperr"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/pipeline"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/publish"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/testutil"
)

type fakeArchiver struct {
	entries  []models.ArchiveEntry
	lastFilt archive.Filter
	lastQ    string
}

func (f *fakeArchiver) List(filt archive.Filter) ([]models.ArchiveEntry, error) {
	f.lastFilt = filt
	return f.entries, nil
}

func (f *fakeArchiver) Search(query string, limit int) ([]models.ArchiveEntry, error) {
	f.lastQ = query
	return f.entries, nil
}

func (f *fakeArchiver) Count() (int, error) {
	return len(f.entries), nil
}

func testService(t *testing.T) (*Service, *publish.Writer, *fakeArchiver) {
	t.Helper()
	_, store := testutil.TestDataDir(t)
	pub := publish.NewWriter(store)
	arch := &fakeArchiver{}
	return NewService(pub, arch), pub, arch
}

func TestDigest_BeforeFirstPublish(t *testing.T) {
	svc, _, _ := testService(t)

	if _, err := svc.Digest(context.Background()); !errors.Is(err, apperr.ErrNoDigest) {
		t.Errorf("Digest err = %v, want ErrNoDigest", err)
	}
	if _, err := svc.Items(context.Background()); !errors.Is(err, apperr.ErrNoDigest) {
		t.Errorf("Items err = %v, want ErrNoDigest", err)
	}
	if _, err := svc.Watchlist(context.Background()); !errors.Is(err, apperr.ErrNoDigest) {
		t.Errorf("Watchlist err = %v, want ErrNoDigest", err)
	}
}

func TestDigestSections(t *testing.T) {
	svc, pub, _ := testService(t)

	items := []models.Item{
		{ID: "k1", Title: "Key", PriorityScore: 90},
		{ID: "r2", Title: "Rest", PriorityScore: 40},
	}
	res := pipeline.Result{
		Items: items,
		Summary: pipeline.Summary{
			KeySignals: items[:1],
			Watchlist:  []pipeline.WatchlistEntry{{Name: "AppLovin", Count: 1, TopSignal: &pipeline.SignalRef{PriorityScore: 90}}},
		},
	}
	if err := pub.Publish(res); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(got) != 2 || got[0].ID != "k1" {
		t.Errorf("items = %+v", got)
	}

	keys, err := svc.KeySignals(context.Background())
	if err != nil {
		t.Fatalf("KeySignals: %v", err)
	}
	if len(keys) != 1 || keys[0].ID != "k1" {
		t.Errorf("key signals = %+v", keys)
	}

	wl, err := svc.Watchlist(context.Background())
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if len(wl) != 1 || wl[0].Name != "AppLovin" {
		t.Errorf("watchlist = %+v", wl)
	}
}

func TestArchivePassthrough(t *testing.T) {
	svc, _, arch := testService(t)
	arch.entries = []models.ArchiveEntry{{ID: "arc1"}}

	got, err := svc.Archive(context.Background(), archive.Filter{MinScore: 70})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(got) != 1 || arch.lastFilt.MinScore != 70 {
		t.Errorf("entries = %+v, filter = %+v", got, arch.lastFilt)
	}

	if _, err := svc.SearchArchive(context.Background(), "merger", 5); err != nil {
		t.Fatalf("SearchArchive: %v", err)
	}
	if arch.lastQ != "merger" {
		t.Errorf("query = %q, want merger", arch.lastQ)
	}

	n, err := svc.ArchiveCount(context.Background())
	if err != nil || n != 1 {
		t.Errorf("count = %d, err = %v", n, err)
	}
}
