// Package hit holds the raw, backend-native search hits returned by the
// index collaborators before normalization.
package hit

// Neighbor is a vector-store hit. Distance is cosine distance in [0,2],
// smaller is closer.
type Neighbor struct {
	ContentID string
	Distance  float64
}

// TextHit is a full-text index hit. Rank is an engine-specific relevance
// statistic where higher means more relevant; its scale is not bounded.
type TextHit struct {
	ContentID string
	Rank      float64
}
