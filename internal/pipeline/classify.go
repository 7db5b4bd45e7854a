package pipeline

import (
	"strings"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/taxonomy"
)

// Classify annotates each item with its matched topics and entities, and
// stamps the item's signal type from the highest-weight topic. Items that
// match no topic keep an empty signal type; a hard trigger may fill it later
// during scoring.
func Classify(items []models.Item, m *taxonomy.Matcher) {
	for i := range items {
		it := &items[i]
		text := searchText(it)
		it.Topics = m.MatchTopics(text)
		it.Entities = m.MatchEntities(text)
		if primary := it.PrimaryTopic(); primary != nil {
			it.SignalType = primary.SignalType
		}
	}
}

// searchText is the lowered haystack every keyword, alias, trigger, and
// structural-event pattern is matched against.
func searchText(it *models.Item) string {
	return strings.ToLower(it.Title + " " + it.Summary)
}
