package pipeline

import (
	"strings"
	"testing"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

func TestApplyInsights_WatchlistEntityWins(t *testing.T) {
	items := []models.Item{{
		ID:       "id1",
		Topics:   []models.Topic{{Key: "earnings", Weight: 1.0}},
		Entities: []models.Entity{{Name: "AppLovin", Watchlist: true}},
	}}
	ApplyInsights(items)

	if items[0].WhyItMatters != entityWhy["AppLovin"] {
		t.Errorf("why = %q, want curated AppLovin rationale", items[0].WhyItMatters)
	}
	if !strings.Contains(items[0].RecommendedAction, "Track AppLovin closely") {
		t.Errorf("action = %q", items[0].RecommendedAction)
	}
}

func TestApplyInsights_NonWatchlistEntityIgnored(t *testing.T) {
	items := []models.Item{{
		ID:       "id2",
		Topics:   []models.Topic{{Key: "earnings", Weight: 1.0}},
		Entities: []models.Entity{{Name: "AppLovin", Watchlist: false}},
	}}
	ApplyInsights(items)
	if items[0].WhyItMatters == entityWhy["AppLovin"] {
		t.Error("non-watchlist entity must not take the curated rationale")
	}
	if items[0].RecommendedAction != actionTemplates["earnings"] {
		t.Errorf("action = %q, want earnings action", items[0].RecommendedAction)
	}
}

func TestApplyInsights_TopicTemplateDeterministic(t *testing.T) {
	mk := func() []models.Item {
		return []models.Item{{
			ID:     "stable-id",
			Topics: []models.Topic{{Key: "bidding", Weight: 1.0}},
		}}
	}
	a, b := mk(), mk()
	ApplyInsights(a)
	ApplyInsights(b)
	if a[0].WhyItMatters != b[0].WhyItMatters {
		t.Errorf("template choice not deterministic: %q vs %q", a[0].WhyItMatters, b[0].WhyItMatters)
	}
	found := false
	for _, tmpl := range whyTemplates["bidding"] {
		if a[0].WhyItMatters == tmpl {
			found = true
		}
	}
	if !found {
		t.Errorf("why = %q, not from the bidding bank", a[0].WhyItMatters)
	}
}

func TestApplyInsights_HighestWeightTopic(t *testing.T) {
	items := []models.Item{{
		ID: "id3",
		Topics: []models.Topic{
			{Key: "hiring", Weight: 0.4},
			{Key: "regulatory", Weight: 1.2},
		},
	}}
	ApplyInsights(items)
	if items[0].RecommendedAction != actionTemplates["regulatory"] {
		t.Errorf("action = %q, want regulatory (highest weight)", items[0].RecommendedAction)
	}
}

func TestApplyInsights_UncuratedTopicFallsBack(t *testing.T) {
	items := []models.Item{{
		ID:     "id4",
		Topics: []models.Topic{{Key: "space_ads", Weight: 1.0}},
	}}
	ApplyInsights(items)
	if items[0].WhyItMatters != topicFallback {
		t.Errorf("why = %q, want topic fallback", items[0].WhyItMatters)
	}
	if items[0].RecommendedAction != defaultAction {
		t.Errorf("action = %q, want default action", items[0].RecommendedAction)
	}
}

func TestApplyInsights_GenericFallback(t *testing.T) {
	items := []models.Item{{ID: "id5"}}
	ApplyInsights(items)
	if items[0].WhyItMatters != genericWhy || items[0].RecommendedAction != genericAction {
		t.Errorf("fallbacks not applied: %q / %q", items[0].WhyItMatters, items[0].RecommendedAction)
	}
}
