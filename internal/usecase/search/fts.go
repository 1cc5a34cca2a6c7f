package search

import (
	"context"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/query"
)

// runFullText queries the text index, passing the query syntax through
// verbatim, and min–max normalizes the returned rank statistics.
func (s *Service) runFullText(ctx context.Context, q *query.Query) ([]candidate.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AdapterTimeout)
	defer cancel()

	hits, err := s.texts.QueryFullText(ctx, q.UserID(), q.Text(), q.Limit())
	if err != nil {
		return nil, domain.NewUnavailable(domain.ServiceTextIndex, err)
	}

	return normalizeTextHits(hits, s.cfg.ScoreFloor), nil
}
