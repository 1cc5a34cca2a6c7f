package result

import (
	"time"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

// Result is a single user-facing search hit assembled from content metadata.
type Result struct {
	ID             string
	Title          string
	Excerpt        string
	ContentType    domain.ContentType
	RelevanceScore float64
	Metadata       Metadata
}

// Metadata carries the item attributes exposed alongside a result.
type Metadata struct {
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Source     string
	Annotation string
}

// Outcome is the orchestrator's return value. TotalResults counts matches
// after filtering and before truncation to the requested limit.
type Outcome struct {
	Results      []Result
	TotalResults int
	MethodUsed   method.Method
}
