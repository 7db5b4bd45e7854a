// Package publish writes and reads the digest output files in the data
// directory. Writes go through the storage provider's atomic rename, so a
// reader never observes a half-written digest.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/apperr"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/pipeline"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/storage"
)

// Output file paths relative to the data root.
const (
	ItemsFile   = "digest/items.json"
	SummaryFile = "digest/summary.json"
)

// Writer publishes pipeline results and reads them back for serving.
type Writer struct {
	store storage.Provider
}

// NewWriter creates a Writer over the given data-directory provider.
func NewWriter(store storage.Provider) *Writer {
	return &Writer{store: store}
}

// Publish writes the item list and the summary. The summary is written
// last: once it exists, the items file it refers to is already in place.
func (w *Writer) Publish(res pipeline.Result) error {
	items, err := json.MarshalIndent(res.Items, "", "  ")
	if err != nil {
		return fmt.Errorf("publish: marshal items: %w", err)
	}
	if err := w.store.Write(ItemsFile, items); err != nil {
		return fmt.Errorf("publish: write items: %w", err)
	}

	summary, err := json.MarshalIndent(res.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("publish: marshal summary: %w", err)
	}
	if err := w.store.Write(SummaryFile, summary); err != nil {
		return fmt.Errorf("publish: write summary: %w", err)
	}
	return nil
}

// LoadItems reads the last published item list. Returns apperr.ErrNoDigest
// when nothing has been published yet.
func (w *Writer) LoadItems() ([]models.Item, error) {
	data, err := w.store.Read(ItemsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNoDigest
		}
		return nil, fmt.Errorf("publish: read items: %w", err)
	}
	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("publish: decode items: %w", err)
	}
	return items, nil
}

// LoadSummary reads the last published summary. Returns apperr.ErrNoDigest
// when nothing has been published yet.
func (w *Writer) LoadSummary() (*pipeline.Summary, error) {
	data, err := w.store.Read(SummaryFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNoDigest
		}
		return nil, fmt.Errorf("publish: read summary: %w", err)
	}
	var summary pipeline.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("publish: decode summary: %w", err)
	}
	return &summary, nil
}
