package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/pocketmind/pocketmind/internal/domain"
)

type mockLister struct {
	tags []domain.TagCount
	err  error
}

func (m *mockLister) ListTags(_ context.Context, _ string) ([]domain.TagCount, error) {
	return m.tags, m.err
}

func TestList(t *testing.T) {
	lister := &mockLister{tags: []domain.TagCount{
		{Name: "notes", Count: 5},
		{Name: "recipes", Count: 2},
	}}
	svc := New(lister)

	tags, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "notes" || tags[0].Count != 5 {
		t.Errorf("unexpected first tag: %+v", tags[0])
	}
}

func TestList_MissingUser(t *testing.T) {
	svc := New(&mockLister{})

	_, err := svc.List(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestList_StoreError(t *testing.T) {
	svc := New(&mockLister{err: errors.New("sqlite locked")})

	_, err := svc.List(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error")
	}
}
