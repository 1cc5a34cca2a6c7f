package capture

import (
	"context"

	"github.com/pocketmind/pocketmind/internal/domain"
)

// ContentStore persists item metadata and extracted text. The full-text
// index follows metadata writes automatically.
type ContentStore interface {
	Create(ctx context.Context, item domain.Item) error
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// VectorStore holds embedding documents keyed by content id.
type VectorStore interface {
	Upsert(ctx context.Context, item *domain.Item, vector []float32) error
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes captured text.
type Embedder = domain.Embedder
