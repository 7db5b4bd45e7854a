package taxonomy

import (
	"strings"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

// Matcher holds the taxonomy with keyword phrases pre-lowercased so the hot
// classification loop does no per-item allocation beyond the result slices.
//
// Matching is plain case-insensitive SUBSTRING containment, not word-boundary
// matching: "ai " matches inside "said ". This mirrors the behavior the
// scoring weights were tuned against; do not tighten it without retuning.
type Matcher struct {
	topics   []compiledTopic
	entities []compiledEntity
}

type compiledTopic struct {
	topic    models.Topic
	keywords []string
}

type compiledEntity struct {
	entity  models.Entity
	aliases []string
}

// NewMatcher compiles a taxonomy into a Matcher.
func NewMatcher(tx *Taxonomy) *Matcher {
	m := &Matcher{
		topics:   make([]compiledTopic, 0, len(tx.Topics)),
		entities: make([]compiledEntity, 0, len(tx.Entities.Companies)),
	}
	for _, t := range tx.Topics {
		ct := compiledTopic{
			topic: models.Topic{
				Key:        t.Key,
				Label:      t.Label,
				SignalType: t.SignalType,
				Weight:     t.Weight,
			},
			keywords: lowerAll(t.Keywords),
		}
		if ct.topic.Weight == 0 {
			ct.topic.Weight = 0.5
		}
		m.topics = append(m.topics, ct)
	}
	for _, e := range tx.Entities.Companies {
		m.entities = append(m.entities, compiledEntity{
			entity: models.Entity{
				Name:      e.Name,
				Type:      entityTypeOrUnknown(e.Type),
				Watchlist: e.Watchlist,
			},
			aliases: lowerAll(e.Aliases),
		})
	}
	return m
}

// MatchTopics returns every topic whose keyword list hits the text. The scan
// of each topic's keywords stops at the first hit (first keyword wins per
// topic); an item may match zero, one, or many topics. text must already be
// lowercased by the caller (classify stage lowers title+summary once).
func (m *Matcher) MatchTopics(text string) []models.Topic {
	var matched []models.Topic
	for _, ct := range m.topics {
		for _, kw := range ct.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, ct.topic)
				break
			}
		}
	}
	return matched
}

// MatchEntities returns every entity with at least one alias in the text.
// Each entity contributes at most one match regardless of alias count.
func (m *Matcher) MatchEntities(text string) []models.Entity {
	var matched []models.Entity
	for _, ce := range m.entities {
		for _, alias := range ce.aliases {
			if strings.Contains(text, alias) {
				matched = append(matched, ce.entity)
				break
			}
		}
	}
	return matched
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func entityTypeOrUnknown(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}
