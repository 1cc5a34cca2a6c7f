package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pocketmind/pocketmind/internal/db"
	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/hit"
)

const (
	// IndexName is the FT index over content vectors.
	IndexName = domain.KeyPrefix + "content:idx"

	keyPrefix = domain.KeyPrefix + "vec:"

	fieldVector = "vector"
	fieldUser   = "user"
	fieldType   = "type"
)

// store is the consumer interface for vector document operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// IndexParams configures the HNSW vector index.
type IndexParams struct {
	Dim         int
	M           int
	EFConstruct int
}

// Repo stores one embedding document per content item and serves
// user-scoped nearest-neighbour queries.
type Repo struct {
	store store
}

// New creates a vector repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the HNSW index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, p IndexParams) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Tag(fieldUser).
		Tag(fieldType).
		VectorHNSW(fieldVector, p.Dim, db.DistanceCosine, p.M, p.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert writes the embedding document for an item.
func (r *Repo) Upsert(ctx context.Context, item *domain.Item, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("vector is required")
	}
	fields := map[string]string{
		fieldVector: vectorToBytes(vector),
		fieldUser:   item.UserID,
		fieldType:   string(item.Type),
	}
	if err := r.store.HSet(ctx, keyPrefix+item.ID, fields); err != nil {
		return fmt.Errorf("upsert vector %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes the embedding document of an item.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete vector %s: %w", id, err)
	}
	return nil
}

// QueryNearest returns up to limit neighbours of the query vector among one
// user's documents, ordered by ascending cosine distance.
func (r *Repo) QueryNearest(
	ctx context.Context, userID string, vector []float32, limit int,
) ([]hit.Neighbor, error) {
	q := &db.KNNQuery{
		IndexName: IndexName,
		Tags:      map[string]string{fieldUser: userID},
		Vector:    vector,
		K:         limit,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	neighbors := make([]hit.Neighbor, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		neighbors = append(neighbors, hit.Neighbor{
			ContentID: strings.TrimPrefix(entry.Key, keyPrefix),
			Distance:  entry.Distance,
		})
	}
	return neighbors, nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
