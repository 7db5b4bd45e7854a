package pipeline

import (
	"sort"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

// Rank orders items by priority (descending, stable) and then applies the
// per-source cap: the first maxPerSource items of each source keep their
// ranked positions, the rest move to the tail in their relative order. No
// item is dropped; diversification only demotes.
func Rank(items []models.Item, maxPerSource int) []models.Item {
	ranked := make([]models.Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	counts := make(map[string]int)
	kept := make([]models.Item, 0, len(ranked))
	var overflow []models.Item
	for _, it := range ranked {
		if counts[it.Source] < maxPerSource {
			kept = append(kept, it)
			counts[it.Source]++
		} else {
			overflow = append(overflow, it)
		}
	}
	return append(kept, overflow...)
}
