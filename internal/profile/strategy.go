package profile

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HardTrigger is a regex pattern that unconditionally boosts priority when
// it matches an item's title+summary. A trigger may also stamp a signal
// label onto items that have none.
type HardTrigger struct {
	Pattern string  `yaml:"pattern"`
	Boost   float64 `yaml:"boost"`
	Signal  string  `yaml:"signal"`

	re *regexp.Regexp
}

// Matches reports whether the compiled pattern matches text.
// An uncompiled trigger never matches.
func (h *HardTrigger) Matches(text string) bool {
	return h.re != nil && h.re.MatchString(text)
}

// StrategyProfile biases relevance and priority toward the operator's
// priorities. All multipliers default to 1.0 (neutral) when absent.
type StrategyProfile struct {
	TopicWeights       map[string]float64 `yaml:"topic_weights"`
	EntityWeights      map[string]float64 `yaml:"entity_weights"`
	ContentTypeWeights map[string]float64 `yaml:"content_type_weights"`
	HardTriggers       []HardTrigger      `yaml:"hard_triggers"`
}

// DefaultStrategy returns the neutral profile: no multipliers, no triggers.
func DefaultStrategy() *StrategyProfile {
	return &StrategyProfile{}
}

// TopicMultiplier returns the multiplier for a topic key, 1.0 when unset.
func (s *StrategyProfile) TopicMultiplier(key string) float64 {
	return multiplier(s.TopicWeights, key)
}

// EntityMultiplier returns the multiplier for an entity name, 1.0 when unset.
func (s *StrategyProfile) EntityMultiplier(name string) float64 {
	return multiplier(s.EntityWeights, name)
}

// ContentTypeMultiplier returns the multiplier for a content type, 1.0 when unset.
func (s *StrategyProfile) ContentTypeMultiplier(contentType string) float64 {
	return multiplier(s.ContentTypeWeights, contentType)
}

func multiplier(m map[string]float64, key string) float64 {
	if m == nil {
		return 1.0
	}
	v, ok := m[key]
	if !ok {
		return 1.0
	}
	return v
}

// Validate compiles every hard-trigger pattern, rejecting the profile when a
// pattern is not a valid regular expression. Triggers match case-insensitively
// against already-lowercased text, so patterns are compiled as written.
func (s *StrategyProfile) Validate() error {
	for i := range s.HardTriggers {
		ht := &s.HardTriggers[i]
		if err := validation.ValidateStruct(ht,
			validation.Field(&ht.Pattern, validation.Required),
		); err != nil {
			return fmt.Errorf("hard trigger %d: %w", i, err)
		}
		re, err := regexp.Compile(ht.Pattern)
		if err != nil {
			return fmt.Errorf("hard trigger %d: bad pattern %q: %w", i, ht.Pattern, err)
		}
		ht.re = re
	}
	return nil
}
