// Package feed coordinates the published digest output and the archive
// store for the read-side surfaces (HTTP API, MCP tools).
package feed

import (
	"context"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/pipeline"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/publish"
)

// Archiver is the slice of the archive store the feed needs. Consumers
// depend on this interface rather than the concrete *archive.Store to
// facilitate testing with fakes.
type Archiver interface {
	List(f archive.Filter) ([]models.ArchiveEntry, error)
	Search(query string, limit int) ([]models.ArchiveEntry, error)
	Count() (int, error)
}

// Service serves the current digest and the archive history.
type Service struct {
	pub  *publish.Writer
	arch Archiver
}

// NewService creates a feed service over the published output and the
// archive store.
func NewService(pub *publish.Writer, arch Archiver) *Service {
	return &Service{pub: pub, arch: arch}
}

// Digest returns the last published summary, or apperr.ErrNoDigest before
// the first run.
func (s *Service) Digest(_ context.Context) (*pipeline.Summary, error) {
	return s.pub.LoadSummary()
}

// Items returns the last published item list in selection order.
func (s *Service) Items(_ context.Context) ([]models.Item, error) {
	return s.pub.LoadItems()
}

// KeySignals returns the key-signal section of the current digest.
func (s *Service) KeySignals(ctx context.Context) ([]models.Item, error) {
	summary, err := s.Digest(ctx)
	if err != nil {
		return nil, err
	}
	return summary.KeySignals, nil
}

// Watchlist returns the watchlist section of the current digest.
func (s *Service) Watchlist(ctx context.Context) ([]pipeline.WatchlistEntry, error) {
	summary, err := s.Digest(ctx)
	if err != nil {
		return nil, err
	}
	return summary.Watchlist, nil
}

// Archive lists archived entries per the filter.
func (s *Service) Archive(_ context.Context, f archive.Filter) ([]models.ArchiveEntry, error) {
	return s.arch.List(f)
}

// SearchArchive performs a full-text search over archived entries.
func (s *Service) SearchArchive(_ context.Context, query string, limit int) ([]models.ArchiveEntry, error) {
	return s.arch.Search(query, limit)
}

// ArchiveCount returns the number of archived entries.
func (s *Service) ArchiveCount(_ context.Context) (int, error) {
	return s.arch.Count()
}
