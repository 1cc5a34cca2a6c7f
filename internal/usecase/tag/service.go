package tag

import (
	"context"
	"fmt"

	"github.com/pocketmind/pocketmind/internal/domain"
)

// Lister reads distinct tags with usage counts for one user.
type Lister interface {
	ListTags(ctx context.Context, userID string) ([]domain.TagCount, error)
}

// Service exposes the tag vocabulary of a user's captured content.
type Service struct {
	tags Lister
}

// New creates a tag service.
func New(tags Lister) *Service {
	return &Service{tags: tags}
}

// List returns the user's tags ordered by the store (count desc, name asc).
func (s *Service) List(ctx context.Context, userID string) ([]domain.TagCount, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidQuery)
	}
	tags, err := s.tags.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
