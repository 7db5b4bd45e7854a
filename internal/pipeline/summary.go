package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/profile"
)

// Aggregate list caps. Momentum and distribution lists are display-bounded
// rather than threshold-configurable.
const (
	maxMomentumTopics   = 12
	maxDistributionRows = 20
)

// Tiles is the dashboard stats block.
type Tiles struct {
	TotalItems        int     `json:"total_items"`
	ActiveItems       int     `json:"active_items"`
	NoiseFiltered     int     `json:"noise_filtered"`
	AvgPriority       float64 `json:"avg_priority"`
	HighPriority      int     `json:"high_priority"`
	SourcesActive     int     `json:"sources_active"`
	HSICount          int     `json:"hsi_count"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
}

// Learning is one key-learning row: a projection of an item, not the item
// itself, since renderers show these in a compact list.
type Learning struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	SourceType    string `json:"source_type"`
	SignalType    string `json:"signal_type"`
	WhyItMatters  string `json:"why_it_matters"`
	PriorityScore int    `json:"priority_score"`
	IsHSI         bool   `json:"is_hsi"`
}

// TopicMomentum is one row of the topic-momentum board: how often a topic
// fired and the summed priority behind it.
type TopicMomentum struct {
	Label string `json:"label"`
	Score int    `json:"score"`
	Count int    `json:"count"`
}

// NameCount is a generic distribution row.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SignalRef is a compact pointer to the strongest item behind a watchlist row.
type SignalRef struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PriorityScore int    `json:"priority_score"`
	SignalType    string `json:"signal_type"`
}

// WatchlistEntry aggregates mentions of one watchlisted company.
type WatchlistEntry struct {
	Name      string     `json:"name"`
	Count     int        `json:"count"`
	TopSignal *SignalRef `json:"top_signal"`
}

// Summary is the aggregated digest consumed by rendering collaborators. The
// key-signal, must-read, learning, and media sections are disjoint: each item
// id appears in at most one of them.
type Summary struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	Tiles                Tiles            `json:"tiles"`
	KeySignals           []models.Item    `json:"key_signals"`
	MustReads            []models.Item    `json:"must_reads"`
	KeyLearnings         []Learning       `json:"key_learnings"`
	VideoItems           []models.Item    `json:"video_items"`
	AudioItems           []models.Item    `json:"audio_items"`
	TopicMomentum        []TopicMomentum  `json:"topic_momentum"`
	SourceDistribution   []NameCount      `json:"source_distribution"`
	CategoryDistribution []NameCount      `json:"category_distribution"`
	Watchlist            []WatchlistEntry `json:"watchlist"`
}

// BuildSummary aggregates ranked items into the digest views. items must
// already be in selection order (priority descending with the per-source cap
// applied); every section walks that order.
func BuildSummary(items []models.Item, th profile.Thresholds, now time.Time) Summary {
	var active []models.Item
	noise := 0
	for _, it := range items {
		if it.IsNoise {
			noise++
			continue
		}
		active = append(active, it)
	}

	used := make(map[string]struct{})

	keySignals := pickKeySignals(active, th, used)
	mustReads := pickMustReads(active, th, used)
	learnings := pickLearnings(active, th, used)
	videoItems := pickByType(active, models.TypeVideo, used)
	audioItems := pickByType(active, models.TypeAudio, used)

	return Summary{
		GeneratedAt:          now.UTC(),
		Tiles:                buildTiles(items, active, noise, th),
		KeySignals:           keySignals,
		MustReads:            mustReads,
		KeyLearnings:         learnings,
		VideoItems:           videoItems,
		AudioItems:           audioItems,
		TopicMomentum:        buildMomentum(active),
		SourceDistribution:   buildDistribution(active, func(it *models.Item) string { return it.Source }),
		CategoryDistribution: buildDistribution(active, func(it *models.Item) string { return it.SourceCategory }),
		Watchlist:            buildWatchlist(active),
	}
}

func pickKeySignals(active []models.Item, th profile.Thresholds, used map[string]struct{}) []models.Item {
	var out []models.Item
	for _, it := range active {
		if len(out) >= th.MaxKeySignals {
			break
		}
		if it.PriorityScore >= th.KeySignalMin {
			out = append(out, it)
			used[it.ID] = struct{}{}
		}
	}
	return out
}

func pickMustReads(active []models.Item, th profile.Thresholds, used map[string]struct{}) []models.Item {
	var out []models.Item
	for _, it := range active {
		if _, ok := used[it.ID]; ok {
			continue
		}
		if it.PriorityScore >= th.MustReadMin {
			out = append(out, it)
			used[it.ID] = struct{}{}
		}
		if len(out) >= th.MaxMustReads {
			break
		}
	}
	return out
}

// pickLearnings walks remaining items in priority order with a topic
// diversity constraint: once 3 learnings are chosen, an item whose topics
// are all already represented is skipped. The first 3 slots are
// unconstrained so the list is never empty on low-diversity days. Items
// with no topics are never skipped.
func pickLearnings(active []models.Item, th profile.Thresholds, used map[string]struct{}) []Learning {
	seenTopics := make(map[string]struct{})
	var out []Learning
	for i := range active {
		it := &active[i]
		if _, ok := used[it.ID]; ok {
			continue
		}
		if len(out) >= th.MaxKeyLearnings {
			break
		}
		keys := it.TopicKeys()
		if len(out) >= 3 && len(keys) > 0 && coveredBy(keys, seenTopics) {
			continue
		}
		for k := range keys {
			seenTopics[k] = struct{}{}
		}
		out = append(out, Learning{
			Title:         it.Title,
			URL:           it.URL,
			Source:        it.Source,
			SourceType:    it.SourceType,
			SignalType:    it.SignalType,
			WhyItMatters:  it.WhyItMatters,
			PriorityScore: it.PriorityScore,
			IsHSI:         it.IsHSI,
		})
		used[it.ID] = struct{}{}
	}
	return out
}

func coveredBy(keys, seen map[string]struct{}) bool {
	for k := range keys {
		if _, ok := seen[k]; !ok {
			return false
		}
	}
	return true
}

func pickByType(active []models.Item, sourceType string, used map[string]struct{}) []models.Item {
	var out []models.Item
	for _, it := range active {
		if it.SourceType != sourceType {
			continue
		}
		if _, ok := used[it.ID]; ok {
			continue
		}
		out = append(out, it)
		used[it.ID] = struct{}{}
	}
	return out
}

func buildTiles(items, active []models.Item, noise int, th profile.Thresholds) Tiles {
	tiles := Tiles{
		TotalItems:    len(items),
		ActiveItems:   len(active),
		NoiseFiltered: noise,
	}
	sources := make(map[string]struct{})
	sum := 0
	for _, it := range active {
		sum += it.PriorityScore
		sources[it.Source] = struct{}{}
		if it.PriorityScore >= th.KeySignalMin {
			tiles.HighPriority++
		}
		if it.IsHSI {
			tiles.HSICount++
		}
	}
	if len(active) > 0 {
		tiles.AvgPriority = math.Round(float64(sum)/float64(len(active))*10) / 10
	}
	tiles.SourcesActive = len(sources)
	return tiles
}

func buildMomentum(active []models.Item) []TopicMomentum {
	counts := make(map[string]int)
	scores := make(map[string]int)
	for _, it := range active {
		for _, t := range it.Topics {
			counts[t.Label]++
			scores[t.Label] += it.PriorityScore
		}
	}
	rows := make([]TopicMomentum, 0, len(scores))
	for label, score := range scores {
		rows = append(rows, TopicMomentum{Label: label, Score: score, Count: counts[label]})
	}
	// Ties break on label so output is stable across runs.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Label < rows[j].Label
	})
	if len(rows) > maxMomentumTopics {
		rows = rows[:maxMomentumTopics]
	}
	return rows
}

func buildDistribution(active []models.Item, key func(*models.Item) string) []NameCount {
	counts := make(map[string]int)
	for i := range active {
		counts[key(&active[i])]++
	}
	rows := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, NameCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > maxDistributionRows {
		rows = rows[:maxDistributionRows]
	}
	return rows
}

func buildWatchlist(active []models.Item) []WatchlistEntry {
	byName := make(map[string]*WatchlistEntry)
	maxPriority := make(map[string]int)
	for i := range active {
		it := &active[i]
		for _, ent := range it.Entities {
			if !ent.Watchlist {
				continue
			}
			entry, ok := byName[ent.Name]
			if !ok {
				entry = &WatchlistEntry{Name: ent.Name}
				byName[ent.Name] = entry
			}
			entry.Count++
			if entry.TopSignal == nil || it.PriorityScore > maxPriority[ent.Name] {
				maxPriority[ent.Name] = it.PriorityScore
				entry.TopSignal = &SignalRef{
					Title:         it.Title,
					URL:           it.URL,
					PriorityScore: it.PriorityScore,
					SignalType:    it.SignalType,
				}
			}
		}
	}
	rows := make([]WatchlistEntry, 0, len(byName))
	for _, entry := range byName {
		rows = append(rows, *entry)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
