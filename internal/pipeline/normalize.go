// Package pipeline implements the batch stages that turn raw records into a
// scored, annotated, and aggregated daily digest: normalize, dedupe,
// classify, score, select, insight, summarize.
package pipeline

import (
	"strings"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/contentid"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/ingest"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

// Timestamp layouts accepted from fetch adapters. Anything else leaves
// PublishedAt nil, which the recency scorer treats as unknown age.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize maps a raw record onto the canonical item schema, applying the
// documented defaults. It never fails: a record missing everything but a
// title still produces a well-formed item.
func Normalize(rec ingest.Record) models.Item {
	return models.Item{
		ID:                contentid.New(rec.Title, rec.URL),
		Title:             rec.Title,
		URL:               rec.URL,
		Summary:           rec.Summary,
		Source:            rec.SourceLabel(),
		SourceType:        canonicalType(rec.SourceType),
		SourceTier:        tierOrDefault(rec.SourceTier),
		SourceCategory:    categoryOrDefault(rec.SourceCategory),
		CredibilityWeight: weightOrDefault(rec.CredibilityWeight),
		PublishedAt:       parsePublished(rec.PublishedAt),
		NoveltyScore:      100,
		Confidence:        models.ConfidenceMedium,
	}
}

// NormalizeAll normalizes a batch, preserving input order.
func NormalizeAll(recs []ingest.Record) []models.Item {
	items := make([]models.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, Normalize(rec))
	}
	return items
}

// canonicalType folds adapter-reported types into the closed content-type
// set. Legacy adapter values (blog, youtube, podcast) map onto their
// canonical equivalents; anything unrecognized becomes "other".
func canonicalType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "blog", models.TypeArticle:
		return models.TypeArticle
	case "youtube", models.TypeVideo:
		return models.TypeVideo
	case "podcast", models.TypeAudio:
		return models.TypeAudio
	case models.TypeFiling:
		return models.TypeFiling
	default:
		return models.TypeOther
	}
}

func tierOrDefault(tier int) int {
	if tier == 0 {
		return 3
	}
	return tier
}

func categoryOrDefault(cat string) string {
	if cat == "" {
		return "general"
	}
	return cat
}

func weightOrDefault(w *float64) float64 {
	if w == nil {
		return 0.5
	}
	return *w
}

func parsePublished(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}
