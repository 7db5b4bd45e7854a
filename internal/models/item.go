// Package models defines the domain types for the intelligence pipeline.
package models

import "time"

// Content types form a small closed set. Anything a fetch adapter reports
// outside this set is normalized to TypeOther.
const (
	TypeArticle = "article"
	TypeVideo   = "video"
	TypeAudio   = "audio"
	TypeFiling  = "filing"
	TypeOther   = "other"
)

// Confidence levels derived from classification density and credibility.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Topic is a taxonomy category matched onto an item.
type Topic struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	SignalType string  `json:"signal_type"`
	Weight     float64 `json:"weight"`
}

// Entity is a named company/organization mentioned by an item.
type Entity struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Watchlist bool   `json:"watchlist"`
}

// Item is one normalized content unit flowing through the pipeline.
//
// The id is content-addressed: sha256 of the case/whitespace-normalized
// (title, url) pair truncated to 16 hex chars. It is the idempotence key
// for deduplication and archival.
type Item struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	URL               string     `json:"url"`
	Summary           string     `json:"summary"`
	Source            string     `json:"source"`
	SourceType        string     `json:"source_type"`
	SourceTier        int        `json:"source_tier"`
	SourceCategory    string     `json:"source_category"`
	CredibilityWeight float64    `json:"credibility_weight"`
	PublishedAt       *time.Time `json:"published_at"`

	Topics   []Topic  `json:"topics"`
	Entities []Entity `json:"entities"`

	SignalType string `json:"signal_type"`

	CredibilityScore int  `json:"credibility_score"`
	RecencyScore     int  `json:"recency_score"`
	RelevanceScore   int  `json:"relevance_score"`
	NoveltyScore     int  `json:"novelty_score"`
	PriorityScore    int  `json:"priority_score"`
	IsNoise          bool `json:"is_noise"`
	IsHSI            bool `json:"is_hsi"`

	Confidence        string `json:"confidence"`
	WhyItMatters      string `json:"why_it_matters"`
	RecommendedAction string `json:"recommended_action"`
}

// TopicKeys returns the set of matched topic keys.
func (it *Item) TopicKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(it.Topics))
	for _, t := range it.Topics {
		keys[t.Key] = struct{}{}
	}
	return keys
}

// PrimaryTopic returns the highest-weight matched topic, or nil when the
// item matched nothing. Ties resolve to the earliest match, which keeps
// the choice deterministic for a fixed taxonomy order.
func (it *Item) PrimaryTopic() *Topic {
	var best *Topic
	for i := range it.Topics {
		if best == nil || it.Topics[i].Weight > best.Weight {
			best = &it.Topics[i]
		}
	}
	return best
}

// ArchiveEntry is the durable cross-run projection of a high-scoring item.
// Entries are immutable once written; the store only re-sorts and evicts.
type ArchiveEntry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Source        string    `json:"source"`
	SourceType    string    `json:"source_type"`
	SourceTier    int       `json:"source_tier"`
	PublishedAt   *time.Time `json:"published_at"`
	ArchivedAt    time.Time `json:"archived_at"`
	PriorityScore int       `json:"priority_score"`
	SignalType    string    `json:"signal_type"`
	WhyItMatters  string    `json:"why_it_matters"`
	Topics        []Topic   `json:"topics"`
	Entities      []Entity  `json:"entities"`
	IsHSI         bool      `json:"is_hsi"`
}
