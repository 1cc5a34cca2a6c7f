package query

import (
	"fmt"
	"strings"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/filter"
	"github.com/pocketmind/pocketmind/internal/domain/search/mode"
)

// Search parameter limits.
const (
	DefaultLimit   = 10
	MaxLimit       = 50
	MaxQueryLength = 1024
)

// Query is a validated search request scoped to one user's content.
type Query struct {
	text       string
	userID     string
	searchMode mode.Mode
	filters    filter.Filters
	limit      int
}

// New validates and normalizes search parameters.
// Defaults: mode=auto. Callers that received no explicit limit pass
// DefaultLimit; an explicit out-of-range limit is rejected, not clamped.
func New(text, userID string, m mode.Mode, filters filter.Filters, limit int) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if userID == "" {
		return Query{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidQuery)
	}
	if m == "" {
		m = mode.Auto
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidQuery, m)
	}
	if limit < 1 || limit > MaxLimit {
		return Query{}, fmt.Errorf("%w: limit must be between 1 and %d, got %d", domain.ErrInvalidQuery, MaxLimit, limit)
	}
	if err := filters.Validate(); err != nil {
		return Query{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	return Query{
		text:       text,
		userID:     userID,
		searchMode: m,
		filters:    filters,
		limit:      limit,
	}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// UserID returns the owner whose content is searched.
func (q *Query) UserID() string { return q.userID }

// Mode returns the search strategy.
func (q *Query) Mode() mode.Mode { return q.searchMode }

// Filters returns the structured post-search filters.
func (q *Query) Filters() filter.Filters { return q.filters }

// Limit returns the maximum results to return.
func (q *Query) Limit() int { return q.limit }
