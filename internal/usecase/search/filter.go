package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/query"
	"github.com/pocketmind/pocketmind/internal/domain/search/result"
	"github.com/pocketmind/pocketmind/internal/logger"
)

// applyFilters resolves each candidate against the metadata store, drops
// items that are gone or fail the structured filters, and assembles results
// in candidate order. Filtering never re-ranks.
//
// A candidate whose backing item no longer exists is dropped silently: the
// vector and text indexes lag deletions in the metadata store, and that race
// is expected.
func (s *Service) applyFilters(
	ctx context.Context, q *query.Query, cands []candidate.Candidate,
) ([]result.Result, error) {
	log := logger.FromContext(ctx)
	filters := q.Filters()

	out := make([]result.Result, 0, len(cands))
	for _, c := range cands {
		item, err := s.meta.GetByID(ctx, c.ContentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Debug("dropping candidate without backing item",
					zap.String("content_id", c.ContentID))
				continue
			}
			return nil, fmt.Errorf("get item %s: %w", c.ContentID, err)
		}
		if item.UserID != q.UserID() {
			continue
		}
		if !filters.Matches(&item) {
			continue
		}
		out = append(out, buildResult(&item, c.NormalizedScore))
	}
	return out, nil
}

// buildResult assembles a user-facing result from authoritative metadata.
func buildResult(item *domain.Item, score float64) result.Result {
	return result.Result{
		ID:             item.ID,
		Title:          item.Title,
		Excerpt:        item.Excerpt(),
		ContentType:    item.Type,
		RelevanceScore: score,
		Metadata: result.Metadata{
			Tags:       item.Tags,
			CreatedAt:  item.CreatedAt,
			UpdatedAt:  item.UpdatedAt,
			Source:     item.Source,
			Annotation: item.Annotation,
		},
	}
}
