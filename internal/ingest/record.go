// Package ingest defines the raw-record input contract written by fetch
// collaborators and reads pending record dumps from the data drop directory.
package ingest

// Record is the loosely-typed shape a fetch adapter provides. Only Title and
// one of Source/SourceName are required; everything else carries documented
// defaults applied by the normalizer.
type Record struct {
	Title             string   `json:"title"`
	URL               string   `json:"url"`
	Source            string   `json:"source"`
	SourceName        string   `json:"source_name"`
	SourceType        string   `json:"source_type"`
	SourceTier        int      `json:"source_tier"`
	SourceCategory    string   `json:"source_category"`
	CredibilityWeight *float64 `json:"credibility_weight"`
	PublishedAt       string   `json:"published_at"`
	Summary           string   `json:"summary"`
}

// SourceLabel returns the source name, whichever key the adapter used.
func (r Record) SourceLabel() string {
	if r.Source != "" {
		return r.Source
	}
	return r.SourceName
}
