package screening

import "github.com/pressroom-tools/redlist/pkg/watchlist"

// DistanceBreakdown carries the individual distance signals behind a match,
// attached to output for audit.
type DistanceBreakdown struct {
	// RawNameDistance is the token-set distance from the surface form.
	RawNameDistance int `json:"raw_name_distance"`

	// NormalizedNameDistance is the token-set distance from the extractor's
	// normalized form.
	NormalizedNameDistance int `json:"normalized_name_distance"`

	// PersonNameDistance is the surname+initials distance. Only set when it
	// was folded into the fused distance (person entity named with initials).
	PersonNameDistance *int `json:"person_name_distance,omitempty"`
}

// MatchDoc is one surviving watchlist candidate for an entity; after
// deduplication there is at most one per category.
type MatchDoc struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Removed    bool               `json:"is_removed"`
	Similarity float32            `json:"similarity"`
	Distance   int                `json:"distance"`
	Distances  *DistanceBreakdown `json:"distances,omitempty"`
}

// EntityResolution is the per-entity decision. Empty Docs means accepted.
type EntityResolution struct {
	Name     string     `json:"name"`
	NormName string     `json:"normal_name"`
	Context  string     `json:"context"`
	Type     string     `json:"type"`
	Docs     []MatchDoc `json:"docs,omitempty"`
}

// Result aggregates a document's resolutions: warnings carry non-empty
// docs, accepted entries have empty docs (or diagnostic docs in full-data
// mode).
type Result struct {
	Warnings []EntityResolution `json:"warnings,omitempty"`
	Accepted []EntityResolution `json:"accepted,omitempty"`
}

// candidateMatch pairs a retrieved record with its exact cosine similarity.
// Transient, produced per lookup.
type candidateMatch struct {
	record     watchlist.Record
	similarity float32
}
