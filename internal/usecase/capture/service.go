package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/logger"
)

// Draft carries the caller-supplied fields of a capture request.
type Draft struct {
	UserID     string
	Type       domain.ContentType
	Title      string
	Annotation string
	Source     string
	Tags       []string
	Text       string
}

// MaxTags bounds the tags attached to a single item.
const MaxTags = 32

// Service runs the capture pipeline: persist the item, then index its
// embedding. Metadata is the source of truth; the vector side is best-effort
// and an item without a vector stays reachable through full-text search.
type Service struct {
	contents ContentStore
	vectors  VectorStore
	embed    Embedder
}

// New creates a capture service.
func New(contents ContentStore, vectors VectorStore, embed Embedder) *Service {
	return &Service{contents: contents, vectors: vectors, embed: embed}
}

// Capture validates the draft, persists it, and indexes its embedding.
// An embedding or vector store failure is logged and absorbed: the item is
// already durable and full-text searchable.
func (s *Service) Capture(ctx context.Context, draft Draft) (domain.Item, error) {
	item, err := itemFromDraft(draft)
	if err != nil {
		return domain.Item{}, err
	}

	if err := s.contents.Create(ctx, item); err != nil {
		return domain.Item{}, fmt.Errorf("store item: %w", err)
	}

	if err := s.indexVector(ctx, &item); err != nil {
		logger.FromContext(ctx).Warn("item captured without vector",
			zap.String("content_id", item.ID), zap.Error(err))
	}

	return item, nil
}

// Delete removes the item and its vector document. The item must belong to
// the caller; foreign items report not found rather than forbidden.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	item, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.UserID != userID {
		return fmt.Errorf("get item %s: %w", id, domain.ErrNotFound)
	}

	if err := s.contents.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	// A leftover vector document is harmless: search drops candidates whose
	// metadata is gone.
	if err := s.vectors.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("failed to delete vector document",
			zap.String("content_id", id), zap.Error(err))
	}
	return nil
}

func (s *Service) indexVector(ctx context.Context, item *domain.Item) error {
	text := embeddingText(item)
	if text == "" {
		return nil
	}
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("vectorize item: %w", err)
	}
	if err := s.vectors.Upsert(ctx, item, emb.Embedding); err != nil {
		return fmt.Errorf("upsert vector: %w", err)
	}
	return nil
}

// embeddingText joins the searchable text fields of an item.
func embeddingText(item *domain.Item) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{item.Title, item.Annotation, item.Text} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

func itemFromDraft(draft Draft) (domain.Item, error) {
	if draft.UserID == "" {
		return domain.Item{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidContent)
	}
	if !draft.Type.IsValid() {
		return domain.Item{}, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidContent, draft.Type)
	}
	if draft.Type == domain.ContentText && strings.TrimSpace(draft.Text) == "" {
		return domain.Item{}, fmt.Errorf("%w: text content requires text", domain.ErrInvalidContent)
	}
	if len(draft.Tags) > MaxTags {
		return domain.Item{}, fmt.Errorf("%w: too many tags (max %d)", domain.ErrInvalidContent, MaxTags)
	}
	for _, tag := range draft.Tags {
		if strings.TrimSpace(tag) == "" {
			return domain.Item{}, fmt.Errorf("%w: empty tag", domain.ErrInvalidContent)
		}
	}

	now := time.Now().UTC()
	return domain.Item{
		ID:         uuid.NewString(),
		UserID:     draft.UserID,
		Type:       draft.Type,
		Title:      strings.TrimSpace(draft.Title),
		Annotation: strings.TrimSpace(draft.Annotation),
		Source:     strings.TrimSpace(draft.Source),
		Tags:       draft.Tags,
		Text:       draft.Text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
