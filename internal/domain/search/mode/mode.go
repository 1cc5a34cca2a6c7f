package mode

// Mode is the search execution strategy.
type Mode string

// Search mode constants.
const (
	// Auto tries vector search first and falls back to full-text when the
	// vector path is unavailable or returns nothing.
	Auto Mode = "auto"
	// VectorOnly runs vector search with no fallback.
	VectorOnly Mode = "vector_only"
	// Combined runs vector and full-text search concurrently and merges.
	Combined Mode = "combined"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Auto || m == VectorOnly || m == Combined
}
