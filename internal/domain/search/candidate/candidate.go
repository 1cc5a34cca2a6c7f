package candidate

import "github.com/pocketmind/pocketmind/internal/domain/search/method"

// Candidate is a pre-merge, single-method search hit. RawScore keeps the
// backend-native value (cosine distance, rank statistic); only
// NormalizedScore is comparable across methods.
type Candidate struct {
	ContentID       string
	RawScore        float64
	NormalizedScore float64
	Source          method.Method
}
