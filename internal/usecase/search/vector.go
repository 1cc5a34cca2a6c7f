package search

import (
	"context"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/query"
)

// runVector embeds the query text and retrieves the nearest neighbours.
// Any failure on this path (embedding or vector store) is reported as a
// typed unavailability, never as an empty result: callers must be able to
// tell "no matches" from "could not search".
func (s *Service) runVector(ctx context.Context, q *query.Query) ([]candidate.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AdapterTimeout)
	defer cancel()

	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return nil, domain.NewUnavailable(domain.ServiceEmbedding, err)
	}

	neighbors, err := s.vectors.QueryNearest(ctx, q.UserID(), emb.Embedding, q.Limit())
	if err != nil {
		return nil, domain.NewUnavailable(domain.ServiceVectorStore, err)
	}

	return normalizeNeighbors(neighbors), nil
}
