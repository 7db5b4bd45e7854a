package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	MinScore   int
	Source     string
	SignalType string
	HSIOnly    bool
	Limit      int
}

const defaultListLimit = 100

var entryColumns = []string{
	"id", "title", "url", "source", "source_type", "source_tier",
	"published_at", "archived_at", "priority_score", "signal_type",
	"why_it_matters", "topics", "entities", "is_hsi",
}

// Merge inserts every candidate whose id is not already present. Existing
// entries are never updated, so merging the same candidates twice leaves the
// archive unchanged. Returns the number of entries added.
func (s *Store) Merge(candidates []models.ArchiveEntry) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO entries (
			id, title, url, source, source_type, source_tier,
			published_at, archived_at, priority_score, signal_type,
			why_it_matters, topics, entities, is_hsi
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("archive: prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, e := range candidates {
		topicsJSON, _ := json.Marshal(e.Topics)
		entitiesJSON, _ := json.Marshal(e.Entities)
		res, err := stmt.Exec(
			e.ID, e.Title, e.URL, e.Source, e.SourceType, e.SourceTier,
			timePtrString(e.PublishedAt), e.ArchivedAt.UTC().Format(time.RFC3339),
			e.PriorityScore, e.SignalType, e.WhyItMatters,
			string(topicsJSON), string(entitiesJSON), boolInt(e.IsHSI),
		)
		if err != nil {
			return 0, fmt.Errorf("archive: insert entry %s: %w", e.ID, err)
		}
		n, _ := res.RowsAffected()
		if n > 0 {
			added++
			if err := ftsUpsert(tx, e.ID, e.Title, e.WhyItMatters, e.SignalType); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("archive: commit: %w", err)
	}
	return added, nil
}

// Prune evicts the lowest-priority entries until at most max remain. On
// equal priority the newer entry evicts first, so long-standing entries
// survive repeated prunes.
func (s *Store) Prune(max int) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(`
		SELECT id FROM entries
		ORDER BY priority_score ASC, archived_at DESC, id DESC
		LIMIT (SELECT CASE WHEN COUNT(*) > ? THEN COUNT(*) - ? ELSE 0 END FROM entries)
	`, max, max)
	if err != nil {
		return 0, fmt.Errorf("archive: select evictions: %w", err)
	}
	var evict []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		evict = append(evict, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range evict {
		if _, err := tx.Exec(`DELETE FROM entries WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("archive: evict %s: %w", id, err)
		}
		ftsDelete(tx, id)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("archive: commit: %w", err)
	}
	return len(evict), nil
}

// List returns entries ordered by priority (descending), filtered per f.
func (s *Store) List(f Filter) ([]models.ArchiveEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := sq.Select(entryColumns...).
		From("entries").
		OrderBy("priority_score DESC", "archived_at ASC", "id ASC").
		Limit(uint64(limit))
	if f.MinScore > 0 {
		q = q.Where(sq.GtOrEq{"priority_score": f.MinScore})
	}
	if f.Source != "" {
		q = q.Where(sq.Eq{"source": f.Source})
	}
	if f.SignalType != "" {
		q = q.Where(sq.Eq{"signal_type": f.SignalType})
	}
	if f.HSIOnly {
		q = q.Where(sq.Eq{"is_hsi": 1})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("archive: build query: %w", err)
	}
	rows, err := s.conn.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	defer rows.Close()

	var out []models.ArchiveEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns one entry by id, or nil when absent.
func (s *Store) Get(id string) (*models.ArchiveEntry, error) {
	q := sq.Select(entryColumns...).From("entries").Where(sq.Eq{"id": id})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("archive: build query: %w", err)
	}
	rows, err := s.conn.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: get: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Search returns the entries matching a full-text (or LIKE fallback) query,
// in match order.
func (s *Store) Search(query string, limit int) ([]models.ArchiveEntry, error) {
	ids, err := s.SearchIDs(query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.ArchiveEntry, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

// Count returns the number of archived entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (models.ArchiveEntry, error) {
	var (
		e            models.ArchiveEntry
		publishedAt  sql.NullString
		archivedAt   string
		topicsJSON   string
		entitiesJSON string
		isHSI        int
	)
	err := rows.Scan(
		&e.ID, &e.Title, &e.URL, &e.Source, &e.SourceType, &e.SourceTier,
		&publishedAt, &archivedAt, &e.PriorityScore, &e.SignalType,
		&e.WhyItMatters, &topicsJSON, &entitiesJSON, &isHSI,
	)
	if err != nil {
		return e, fmt.Errorf("archive: scan entry: %w", err)
	}
	if publishedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, publishedAt.String); err == nil {
			e.PublishedAt = &ts
		}
	}
	if ts, err := time.Parse(time.RFC3339, archivedAt); err == nil {
		e.ArchivedAt = ts
	}
	_ = json.Unmarshal([]byte(topicsJSON), &e.Topics)
	_ = json.Unmarshal([]byte(entitiesJSON), &e.Entities)
	e.IsHSI = isHSI != 0
	return e, nil
}

func timePtrString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
