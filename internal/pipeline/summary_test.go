package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/profile"
)

var summaryNow = time.Date(2026, 8, 23, 7, 0, 0, 0, time.UTC)

// ranked builds a pre-ranked item list: priorities descend by position.
func ranked(items ...models.Item) []models.Item {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = fmt.Sprintf("id%d", i)
		}
	}
	return items
}

func TestBuildSummary_SectionsDisjoint(t *testing.T) {
	th := profile.DefaultThresholds()
	items := ranked(
		models.Item{PriorityScore: 90, Source: "A"},
		models.Item{PriorityScore: 80, Source: "B"},
		models.Item{PriorityScore: 60, Source: "C"},
		models.Item{PriorityScore: 50, Source: "D", SourceType: models.TypeVideo},
		models.Item{PriorityScore: 45, Source: "E", SourceType: models.TypeAudio},
		models.Item{PriorityScore: 30, Source: "F"},
	)
	s := BuildSummary(items, th, summaryNow)

	seen := make(map[string]string)
	record := func(section string, ids []string) {
		for _, id := range ids {
			if prev, ok := seen[id]; ok {
				t.Errorf("id %s in both %s and %s", id, prev, section)
			}
			seen[id] = section
		}
	}
	record("key_signals", itemIDs(s.KeySignals))
	record("must_reads", itemIDs(s.MustReads))
	record("video", itemIDs(s.VideoItems))
	record("audio", itemIDs(s.AudioItems))

	if len(s.KeySignals) != 2 {
		t.Errorf("key signals = %d, want 2 (>=72)", len(s.KeySignals))
	}
	if len(s.MustReads) != 1 {
		t.Errorf("must reads = %d, want 1 (60)", len(s.MustReads))
	}
	// Everything left fits in the learning slots, so the media sections
	// have nothing to show.
	if len(s.KeyLearnings) != 3 {
		t.Errorf("learnings = %d, want 3", len(s.KeyLearnings))
	}
	if len(s.VideoItems) != 0 || len(s.AudioItems) != 0 {
		t.Errorf("media = %d video / %d audio, want 0/0", len(s.VideoItems), len(s.AudioItems))
	}
}

func TestBuildSummary_MediaSections(t *testing.T) {
	th := profile.DefaultThresholds()
	th.MaxKeyLearnings = 1
	items := ranked(
		models.Item{PriorityScore: 90, Source: "A"},
		models.Item{PriorityScore: 60, Source: "B"},
		models.Item{PriorityScore: 50, Source: "C"}, // the single learning
		models.Item{PriorityScore: 45, Source: "D", SourceType: models.TypeVideo},
		models.Item{PriorityScore: 40, Source: "E", SourceType: models.TypeAudio},
	)
	s := BuildSummary(items, th, summaryNow)

	if len(s.KeyLearnings) != 1 {
		t.Fatalf("learnings = %d, want 1", len(s.KeyLearnings))
	}
	if len(s.VideoItems) != 1 || s.VideoItems[0].Source != "D" {
		t.Errorf("video section = %v", itemIDs(s.VideoItems))
	}
	if len(s.AudioItems) != 1 || s.AudioItems[0].Source != "E" {
		t.Errorf("audio section = %v", itemIDs(s.AudioItems))
	}
}

func itemIDs(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestBuildSummary_KeySignalCap(t *testing.T) {
	th := profile.DefaultThresholds()
	var items []models.Item
	for i := 0; i < 8; i++ {
		items = append(items, models.Item{
			ID: fmt.Sprintf("hi%d", i), Source: "S", PriorityScore: 95 - i,
		})
	}
	s := BuildSummary(items, th, summaryNow)
	if len(s.KeySignals) != th.MaxKeySignals {
		t.Errorf("key signals = %d, want %d", len(s.KeySignals), th.MaxKeySignals)
	}
	if s.KeySignals[0].ID != "hi0" {
		t.Errorf("first key signal = %s, want hi0", s.KeySignals[0].ID)
	}
}

func TestBuildSummary_NoiseExcluded(t *testing.T) {
	th := profile.DefaultThresholds()
	items := ranked(
		models.Item{PriorityScore: 80, Source: "A"},
		models.Item{PriorityScore: 10, Source: "B", IsNoise: true},
	)
	s := BuildSummary(items, th, summaryNow)
	if s.Tiles.TotalItems != 2 || s.Tiles.ActiveItems != 1 || s.Tiles.NoiseFiltered != 1 {
		t.Errorf("tiles = %+v", s.Tiles)
	}
	if len(s.SourceDistribution) != 1 || s.SourceDistribution[0].Name != "A" {
		t.Errorf("noise leaked into distribution: %v", s.SourceDistribution)
	}
}

func TestBuildSummary_LearningsTopicDiversity(t *testing.T) {
	th := profile.DefaultThresholds()
	th.KeySignalMin = 101 // force everything past key signals
	th.MustReadMin = 101  // and must-reads

	bidding := []models.Topic{{Key: "bidding", Label: "Bidding", Weight: 1.0}}
	ctv := []models.Topic{{Key: "ctv", Label: "CTV", Weight: 1.0}}
	items := ranked(
		models.Item{PriorityScore: 50, Source: "A", Topics: bidding},
		models.Item{PriorityScore: 49, Source: "B", Topics: bidding},
		models.Item{PriorityScore: 48, Source: "C", Topics: bidding},
		models.Item{PriorityScore: 47, Source: "D", Topics: bidding}, // 4th repeat: skipped
		models.Item{PriorityScore: 46, Source: "E", Topics: ctv},     // new topic: kept
	)
	s := BuildSummary(items, th, summaryNow)

	if len(s.KeyLearnings) != 4 {
		t.Fatalf("learnings = %d, want 4", len(s.KeyLearnings))
	}
	// First three slots are unconstrained, then diversity kicks in.
	if s.KeyLearnings[3].Source != "E" {
		t.Errorf("learnings[3].Source = %s, want E (ctv)", s.KeyLearnings[3].Source)
	}
}

func TestBuildSummary_UntopicedLearningsNeverSkipped(t *testing.T) {
	th := profile.DefaultThresholds()
	th.KeySignalMin = 101
	th.MustReadMin = 101

	items := ranked(
		models.Item{PriorityScore: 50, Source: "A"},
		models.Item{PriorityScore: 49, Source: "B"},
		models.Item{PriorityScore: 48, Source: "C"},
		models.Item{PriorityScore: 47, Source: "D"},
		models.Item{PriorityScore: 46, Source: "E"},
	)
	s := BuildSummary(items, th, summaryNow)
	if len(s.KeyLearnings) != 5 {
		t.Errorf("learnings = %d, want 5", len(s.KeyLearnings))
	}
}

func TestBuildSummary_TopicMomentum(t *testing.T) {
	th := profile.DefaultThresholds()
	bidding := models.Topic{Key: "bidding", Label: "Bidding", Weight: 1.0}
	ctv := models.Topic{Key: "ctv", Label: "CTV", Weight: 1.0}
	items := ranked(
		models.Item{PriorityScore: 80, Source: "A", Topics: []models.Topic{bidding}},
		models.Item{PriorityScore: 70, Source: "B", Topics: []models.Topic{bidding, ctv}},
		models.Item{PriorityScore: 60, Source: "C", Topics: []models.Topic{ctv}},
	)
	s := BuildSummary(items, th, summaryNow)

	if len(s.TopicMomentum) != 2 {
		t.Fatalf("momentum rows = %d, want 2", len(s.TopicMomentum))
	}
	top := s.TopicMomentum[0]
	if top.Label != "Bidding" || top.Score != 150 || top.Count != 2 {
		t.Errorf("top momentum = %+v, want Bidding/150/2", top)
	}
}

func TestBuildSummary_Watchlist(t *testing.T) {
	th := profile.DefaultThresholds()
	applovin := models.Entity{Name: "AppLovin", Type: "competitor", Watchlist: true}
	adjust := models.Entity{Name: "Adjust", Type: "measurement", Watchlist: false}
	items := ranked(
		models.Item{Title: "low", PriorityScore: 60, Source: "A", Entities: []models.Entity{applovin, adjust}},
		models.Item{Title: "high", PriorityScore: 90, Source: "B", SignalType: "Earnings", Entities: []models.Entity{applovin}},
	)
	s := BuildSummary(items, th, summaryNow)

	if len(s.Watchlist) != 1 {
		t.Fatalf("watchlist rows = %d, want 1 (non-watchlist excluded)", len(s.Watchlist))
	}
	row := s.Watchlist[0]
	if row.Name != "AppLovin" || row.Count != 2 {
		t.Errorf("row = %+v", row)
	}
	if row.TopSignal == nil || row.TopSignal.Title != "high" || row.TopSignal.PriorityScore != 90 {
		t.Errorf("top signal = %+v, want the 90-point item", row.TopSignal)
	}
}

func TestBuildSummary_Tiles(t *testing.T) {
	th := profile.DefaultThresholds()
	items := ranked(
		models.Item{PriorityScore: 90, Source: "A", IsHSI: true},
		models.Item{PriorityScore: 60, Source: "A"},
		models.Item{PriorityScore: 10, Source: "B", IsNoise: true},
	)
	s := BuildSummary(items, th, summaryNow)

	tiles := s.Tiles
	if tiles.TotalItems != 3 || tiles.ActiveItems != 2 || tiles.NoiseFiltered != 1 {
		t.Errorf("counts: %+v", tiles)
	}
	if tiles.AvgPriority != 75.0 {
		t.Errorf("avg = %v, want 75.0", tiles.AvgPriority)
	}
	if tiles.HighPriority != 1 || tiles.HSICount != 1 || tiles.SourcesActive != 1 {
		t.Errorf("derived: %+v", tiles)
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	s := BuildSummary(nil, profile.DefaultThresholds(), summaryNow)
	if s.Tiles.TotalItems != 0 || s.Tiles.AvgPriority != 0 {
		t.Errorf("tiles = %+v", s.Tiles)
	}
	if !s.GeneratedAt.Equal(summaryNow) {
		t.Errorf("generated_at = %v", s.GeneratedAt)
	}
}
