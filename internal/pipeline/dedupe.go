package pipeline

import (
	"strings"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/textsim"
)

// Dedupe removes exact-URL duplicates and near-duplicate titles, keeping the
// first occurrence and preserving input order. Titles are near-duplicates
// when their cleaned similarity ratio strictly exceeds threshold. Returns the
// surviving items and the number removed.
//
// Two items with empty titles always collapse to one: the similarity of two
// empty strings is 1.0. Adapters are expected to drop title-less records
// upstream.
func Dedupe(items []models.Item, threshold float64) ([]models.Item, int) {
	seenURLs := make(map[string]struct{})
	var seenTitles []string
	unique := make([]models.Item, 0, len(items))

	for _, item := range items {
		url := canonicalURL(item.URL)
		if url != "" {
			if _, ok := seenURLs[url]; ok {
				continue
			}
		}

		dup := false
		for _, prev := range seenTitles {
			if textsim.TitleRatio(item.Title, prev) > threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		if url != "" {
			seenURLs[url] = struct{}{}
		}
		seenTitles = append(seenTitles, item.Title)
		unique = append(unique, item)
	}
	return unique, len(items) - len(unique)
}

// canonicalURL strips the query string and trailing slashes and lowercases,
// so tracking parameters and slash variants compare equal.
func canonicalURL(u string) string {
	u, _, _ = strings.Cut(u, "?")
	return strings.ToLower(strings.TrimRight(u, "/"))
}
