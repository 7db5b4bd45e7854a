package pipeline

import (
	"math"
	"regexp"
	"time"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/profile"
)

// structuralEventPatterns identify truly structural market events: earnings,
// regulatory filings and enforcement, named platform-policy changes, and
// major M&A/IPO activity. An item must match one of these (or be a filing)
// to be flagged high-structural-impact.
var structuralEventPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bearnings\b.*\b(report|call|beat|miss|guidance|results)\b`),
	regexp.MustCompile(`\b(10-k|10-q|8-k)\b`),
	regexp.MustCompile(`\b(quarterly results|annual report|revenue guidance)\b`),
	regexp.MustCompile(`\b(antitrust|doj\b|divestiture|eu commission|enforcement action)`),
	regexp.MustCompile(`\b(dma\s+(?:fine|ruling|compliance|violation|designated))`),
	regexp.MustCompile(`\b(ftc\s+(?:sue|fine|block|order|ruling|settle))`),
	regexp.MustCompile(`\b(skan\s?[5-9]|skan\s+update|att\s+change|idfa\s+deprecat)`),
	regexp.MustCompile(`\b(privacy sandbox\s+(?:launch|deprecat|delay|update|change))`),
	regexp.MustCompile(`\b(protected audience\s+(?:api|launch|update))`),
	regexp.MustCompile(`\b(acquir(?:es|ed)|merger\b|(?:goes|went)\s+public|\bipo\b)`),
}

// Long-form audio/video mention structural terms casually, so those types
// additionally need an explicit platform or market keyword to qualify.
var platformTermsRe = regexp.MustCompile(
	`\b(google|meta|apple|amazon|tiktok|unity|applovin|the trade desk|dsp|ssp|exchange|platform policy|ad market|programmatic)\b`)

// Tier adjustments. Credibility uses a larger spread than priority so the
// tier shows up in both scores without double-counting.
var (
	credTierBonus     = map[int]int{1: 20, 2: 10, 3: 0, 4: -10}
	priorityTierBoost = map[int]float64{1: 8, 2: 3, 3: 0, 4: -5}
)

// Scorer computes the per-item score fields against a fixed strategy,
// thresholds, and reference time.
type Scorer struct {
	strategy   *profile.StrategyProfile
	thresholds profile.Thresholds
	now        time.Time
}

// NewScorer creates a Scorer. now is the reference time for recency decay,
// fixed per run so a batch scores consistently.
func NewScorer(strategy *profile.StrategyProfile, thresholds profile.Thresholds, now time.Time) *Scorer {
	return &Scorer{strategy: strategy, thresholds: thresholds, now: now}
}

// ScoreAll fills every score field on every item: credibility, recency,
// relevance, priority (with trigger and structural-impact boosts), the noise
// flag, and the confidence level. Novelty stays at its normalized default;
// cross-run novelty is a collaborator concern.
func (s *Scorer) ScoreAll(items []models.Item) {
	for i := range items {
		it := &items[i]
		text := searchText(it)

		it.CredibilityScore = s.credibility(it)
		it.RecencyScore = s.recency(it)
		it.RelevanceScore = s.relevance(it)
		it.IsHSI = s.structuralImpact(it, text)
		it.PriorityScore = s.priority(it, text)
		it.IsNoise = it.PriorityScore <= s.thresholds.NoiseMax
		it.Confidence = confidence(it)
	}
}

// credibility scores 0-100 from the source's editorial weight and tier.
func (s *Scorer) credibility(it *models.Item) int {
	return clamp(int(it.CredibilityWeight*80) + credTierBonus[it.SourceTier])
}

// recency scores 0-100 with exponential decay over the item's age. An
// unknown publish time scores a flat 30: old enough to not dominate, recent
// enough to not vanish.
func (s *Scorer) recency(it *models.Item) int {
	if it.PublishedAt == nil {
		return 30
	}
	ageHours := s.now.Sub(*it.PublishedAt).Hours()
	score := 100 * math.Exp(-0.693*ageHours/s.thresholds.RecencyHalfLifeHours)
	return clamp(int(score))
}

// relevance scores 0-100 from topic and entity matches, each biased by the
// strategy profile, with a content-type multiplier over the whole sum.
func (s *Scorer) relevance(it *models.Item) int {
	score := 0.0
	for _, t := range it.Topics {
		score += t.Weight * 25 * s.strategy.TopicMultiplier(t.Key)
	}
	for _, e := range it.Entities {
		score += 8 * s.strategy.EntityMultiplier(e.Name)
	}
	score *= s.strategy.ContentTypeMultiplier(it.SourceType)
	return clamp(int(score))
}

// structuralImpact reports whether the item is a high-structural-impact
// event. Filings always qualify; everything else must match a structural
// pattern, and audio/video must additionally name a platform or market term.
func (s *Scorer) structuralImpact(it *models.Item, text string) bool {
	if it.SourceType == models.TypeFiling {
		return true
	}
	matched := false
	for _, pat := range structuralEventPatterns {
		if pat.MatchString(text) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if it.SourceType == models.TypeAudio || it.SourceType == models.TypeVideo {
		return platformTermsRe.MatchString(text)
	}
	return true
}

// priority composes the weighted sub-scores with the tier boost, any
// hard-trigger boosts, and the structural-impact bonus. A matching trigger
// also stamps its signal label onto items that still have none.
func (s *Scorer) priority(it *models.Item, text string) int {
	base := float64(it.RelevanceScore)*0.40 +
		float64(it.CredibilityScore)*0.20 +
		float64(it.RecencyScore)*0.20 +
		float64(it.NoveltyScore)*0.20

	base += priorityTierBoost[it.SourceTier]

	for i := range s.strategy.HardTriggers {
		trig := &s.strategy.HardTriggers[i]
		if trig.Matches(text) {
			base += trig.Boost
			if it.SignalType == "" {
				it.SignalType = trig.Signal
			}
		}
	}

	if it.IsHSI {
		base += 6
	}
	return clamp(int(base))
}

// confidence grades how much to trust the annotations: dense classification
// from a credible source is high, a single weak signal is medium, neither
// is low.
func confidence(it *models.Item) string {
	switch {
	case len(it.Topics) >= 2 && len(it.Entities) >= 1 && it.CredibilityScore >= 60:
		return models.ConfidenceHigh
	case len(it.Topics) >= 1 || it.CredibilityScore >= 50:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
