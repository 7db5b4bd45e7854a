package pipeline

import (
	"log/slog"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/ingest"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/profile"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/taxonomy"
)

// Pipeline runs the full batch: normalize, dedupe, classify, score, rank,
// annotate, aggregate. It holds no mutable state between runs; every Run is
// a pure function of the records, the configuration, and the clock.
type Pipeline struct {
	matcher    *taxonomy.Matcher
	strategy   *profile.StrategyProfile
	thresholds profile.Thresholds
	log        *slog.Logger

	// Now is the clock used for recency decay and summary timestamps.
	// Tests pin it for reproducible scores.
	Now func() time.Time
}

// Result is one pipeline pass: the fully annotated item list in selection
// order, the aggregated summary, and the dedupe count for the tiles block.
type Result struct {
	Items             []models.Item
	Summary           Summary
	DuplicatesRemoved int
}

// New creates a Pipeline over a compiled taxonomy matcher, a strategy
// profile, and thresholds.
func New(matcher *taxonomy.Matcher, strategy *profile.StrategyProfile, thresholds profile.Thresholds, log *slog.Logger) *Pipeline {
	return &Pipeline{
		matcher:    matcher,
		strategy:   strategy,
		thresholds: thresholds,
		log:        log,
		Now:        time.Now,
	}
}

// Run executes every stage over the given records. An empty batch yields an
// empty but well-formed result.
func (p *Pipeline) Run(records []ingest.Record) Result {
	now := p.Now()

	items := NormalizeAll(records)
	p.log.Info("normalized", slog.Int("items", len(items)))

	items, removed := Dedupe(items, p.thresholds.DedupeSimilarity)
	if removed > 0 {
		p.log.Info("deduplicated", slog.Int("removed", removed), slog.Int("remaining", len(items)))
	}

	Classify(items, p.matcher)
	topicHits, entityHits := 0, 0
	for i := range items {
		if len(items[i].Topics) > 0 {
			topicHits++
		}
		if len(items[i].Entities) > 0 {
			entityHits++
		}
	}
	p.log.Info("classified",
		slog.Int("with_topics", topicHits),
		slog.Int("with_entities", entityHits),
		slog.Int("items", len(items)))

	NewScorer(p.strategy, p.thresholds, now).ScoreAll(items)
	items = Rank(items, p.thresholds.MaxPerSource)

	ApplyInsights(items)

	summary := BuildSummary(items, p.thresholds, now)
	summary.Tiles.DuplicatesRemoved = removed

	p.log.Info("digest built",
		slog.Int("active", summary.Tiles.ActiveItems),
		slog.Int("noise", summary.Tiles.NoiseFiltered),
		slog.Int("key_signals", len(summary.KeySignals)),
		slog.Int("must_reads", len(summary.MustReads)))

	return Result{Items: items, Summary: summary, DuplicatesRemoved: removed}
}
