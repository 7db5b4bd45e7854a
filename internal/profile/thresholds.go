// Package profile holds the operator-tunable scoring configuration: the
// strategy profile (multipliers and hard triggers) and the pipeline
// thresholds. Both load from YAML over documented defaults, so an empty or
// partial file always yields a runnable configuration.
package profile

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Thresholds are the pipeline cutoffs and caps.
type Thresholds struct {
	NoiseMax             int     `yaml:"noise_max"`
	RecencyHalfLifeHours float64 `yaml:"recency_half_life_hours"`
	DedupeSimilarity     float64 `yaml:"dedupe_similarity"`
	MaxPerSource         int     `yaml:"max_per_source"`
	KeySignalMin         int     `yaml:"key_signal_min"`
	MaxKeySignals        int     `yaml:"max_key_signals"`
	MustReadMin          int     `yaml:"must_read_min"`
	MaxMustReads         int     `yaml:"max_must_reads"`
	MaxKeyLearnings      int     `yaml:"max_key_learnings"`
	ArchiveMinScore      int     `yaml:"archive_min_score"`
	ArchiveMaxItems      int     `yaml:"archive_max_items"`
}

// DefaultThresholds returns the documented defaults. Loaders unmarshal YAML
// over this value so absent keys keep their default.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NoiseMax:             18,
		RecencyHalfLifeHours: 48,
		DedupeSimilarity:     0.75,
		MaxPerSource:         5,
		KeySignalMin:         72,
		MaxKeySignals:        5,
		MustReadMin:          55,
		MaxMustReads:         7,
		MaxKeyLearnings:      10,
		ArchiveMinScore:      75,
		ArchiveMaxItems:      300,
	}
}

// Validate validates threshold ranges.
func (t *Thresholds) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.NoiseMax, validation.Min(0), validation.Max(100)),
		validation.Field(&t.RecencyHalfLifeHours, validation.Required, validation.Min(1.0)),
		validation.Field(&t.DedupeSimilarity, validation.Required, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.MaxPerSource, validation.Required, validation.Min(1)),
		validation.Field(&t.KeySignalMin, validation.Min(0), validation.Max(100)),
		validation.Field(&t.MustReadMin, validation.Min(0), validation.Max(100)),
		validation.Field(&t.ArchiveMinScore, validation.Min(0), validation.Max(100)),
		validation.Field(&t.ArchiveMaxItems, validation.Required, validation.Min(1)),
	)
}
