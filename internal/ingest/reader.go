package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/storage"
)

// Data-directory layout. Fetch adapters drop JSON batches into pending/;
// consumed batches move to processed/<date>/ and undecodable ones to failed/.
const (
	PendingDir   = "pending"
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// envelope is the alternative drop shape: {"items": [...]}.
type envelope struct {
	Items []Record `json:"items"`
}

// Reader loads pending record drops from the data directory.
type Reader struct {
	store storage.Provider
	log   *slog.Logger
}

// NewReader creates a Reader over the given data-directory provider.
func NewReader(store storage.Provider, log *slog.Logger) *Reader {
	return &Reader{store: store, log: log}
}

// LoadPending reads every .json file under pending/ in path order and returns
// the decoded records plus the paths that decoded cleanly. A file may hold
// either a bare JSON array of records or an {"items": [...]} envelope.
// Undecodable files are moved to failed/ with a warning; a bad drop never
// aborts the batch.
func (r *Reader) LoadPending() ([]Record, []string, error) {
	files, err := r.store.List(PendingDir, ".json")
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: list pending: %w", err)
	}

	var (
		records  []Record
		consumed []string
	)
	for _, f := range files {
		data, err := r.store.Read(f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: read %s: %w", f.Path, err)
		}
		recs, err := decode(data)
		if err != nil {
			r.log.Warn("skipping undecodable drop", slog.String("path", f.Path), slog.String("error", err.Error()))
			r.quarantine(f.Path)
			continue
		}
		records = append(records, recs...)
		consumed = append(consumed, f.Path)
	}
	return records, consumed, nil
}

// MarkProcessed moves consumed drop files under processed/<YYYY-MM-DD>/ so a
// re-run never double-ingests the same batch.
func (r *Reader) MarkProcessed(paths []string, now time.Time) error {
	day := now.UTC().Format("2006-01-02")
	for _, p := range paths {
		dst := filepath.Join(ProcessedDir, day, filepath.Base(p))
		if err := r.store.Move(p, dst); err != nil {
			return fmt.Errorf("ingest: mark processed %s: %w", p, err)
		}
	}
	return nil
}

func (r *Reader) quarantine(path string) {
	dst := filepath.Join(FailedDir, filepath.Base(path))
	if err := r.store.Move(path, dst); err != nil {
		r.log.Warn("could not quarantine drop", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func decode(data []byte) ([]Record, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err == nil {
		return recs, nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("neither record array nor items envelope: %w", err)
	}
	if env.Items == nil {
		return nil, fmt.Errorf("items envelope missing \"items\" key")
	}
	return env.Items, nil
}
