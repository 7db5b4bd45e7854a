// Package taxonomy defines the topic/entity classification tables and the
// compiled matcher that annotates items with them.
package taxonomy

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TopicDef is one taxonomy category with its keyword triggers. Topics are an
// ordered list: matched topics keep taxonomy order on the item, which keeps
// classification output deterministic.
type TopicDef struct {
	Key        string   `yaml:"key"`
	Label      string   `yaml:"label"`
	SignalType string   `yaml:"signal_type"`
	Weight     float64  `yaml:"weight"`
	Keywords   []string `yaml:"keywords"`
}

// Validate validates a topic definition.
func (t TopicDef) Validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.Key, validation.Required),
		validation.Field(&t.Label, validation.Required),
		validation.Field(&t.Weight, validation.Min(0.0), validation.Max(1.0)),
	); err != nil {
		return fmt.Errorf("topic %q: %w", t.Key, err)
	}
	return nil
}

// EntityDef is a named company/organization with its alias strings.
type EntityDef struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Watchlist bool     `yaml:"watchlist"`
	Aliases   []string `yaml:"aliases"`
}

// Validate validates an entity definition.
func (e EntityDef) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
	)
}

// Entities groups the entity registry sections.
type Entities struct {
	Companies []EntityDef `yaml:"companies"`
}

// Taxonomy is the full classification table, loaded from YAML or defaulted.
type Taxonomy struct {
	Topics   []TopicDef `yaml:"topics"`
	Entities Entities   `yaml:"entities"`
}

// Validate validates the taxonomy.
func (tx *Taxonomy) Validate() error {
	seen := make(map[string]struct{}, len(tx.Topics))
	for _, t := range tx.Topics {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.Key]; dup {
			return fmt.Errorf("duplicate topic key %q", t.Key)
		}
		seen[t.Key] = struct{}{}
	}
	for _, e := range tx.Entities.Companies {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
