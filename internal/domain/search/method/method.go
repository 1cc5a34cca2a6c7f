package method

// Method identifies which search backend produced a candidate or answered a query.
type Method string

// Search method constants.
const (
	Vector Method = "vector"
	FTS    Method = "fts"
	// Combined is reported only when both backends contributed candidates.
	Combined Method = "combined"
)
