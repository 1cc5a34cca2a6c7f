package search

import (
	"context"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/history"
	"github.com/pocketmind/pocketmind/internal/domain/search/hit"
)

// VectorIndex performs nearest-neighbour lookups over stored embeddings,
// scoped to one user's content. Results keep the store's native ordering.
type VectorIndex interface {
	QueryNearest(ctx context.Context, userID string, vector []float32, limit int) ([]hit.Neighbor, error)
}

// TextIndex performs full-text lookups. Query syntax (phrase and boolean
// operators) is engine-native and passed through verbatim.
type TextIndex interface {
	QueryFullText(ctx context.Context, userID, queryText string, limit int) ([]hit.TextHit, error)
}

// MetadataReader loads content items for filtering and result assembly.
// Returns domain.ErrNotFound for items deleted after indexing.
type MetadataReader interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
}

// HistoryWriter appends completed-search records.
type HistoryWriter interface {
	Append(ctx context.Context, rec history.Record) error
}

// Embedder vectorizes query text.
type Embedder = domain.Embedder
