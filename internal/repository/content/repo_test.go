package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pocketmind/pocketmind/internal/db/sqlite"
	"github.com/pocketmind/pocketmind/internal/domain"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	d, err := sqlite.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return New(d.DB)
}

func testItem(id, userID, title, text string, tags ...string) domain.Item {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.Item{
		ID:        id,
		UserID:    userID,
		Type:      domain.ContentText,
		Title:     title,
		Text:      text,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := testItem("id-1", "user-1", "Pasta recipe", "boil water, add salt", "recipes", "food")
	item.Annotation = "grandma's version"
	item.Source = "https://example.com"
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "id-1" || got.UserID != "user-1" || got.Type != domain.ContentText {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.Title != "Pasta recipe" || got.Annotation != "grandma's version" || got.Source != "https://example.com" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "food" || got.Tags[1] != "recipes" {
		t.Errorf("expected sorted tags [food recipes], got %v", got.Tags)
	}
	if !got.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", item.CreatedAt, got.CreatedAt)
	}
}

func TestGet_Missing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testItem("id-1", "user-1", "t", "x", "tag")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "id-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "id-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestQueryFullText(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items := []domain.Item{
		testItem("id-1", "user-1", "Pasta carbonara", "eggs cheese pasta guanciale"),
		testItem("id-2", "user-1", "Shopping list", "pasta flour tomatoes"),
		testItem("id-3", "user-1", "Meeting notes", "quarterly planning session"),
	}
	for _, it := range items {
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("create %s: %v", it.ID, err)
		}
	}

	hits, err := repo.QueryFullText(ctx, "user-1", "pasta", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	for _, h := range hits {
		if h.ContentID == "id-3" {
			t.Error("id-3 should not match")
		}
		if h.Rank <= 0 {
			t.Errorf("expected positive higher-is-better rank, got %v", h.Rank)
		}
	}
	// id-1 mentions pasta in title and text, ranks above id-2.
	if hits[0].ContentID != "id-1" {
		t.Errorf("expected id-1 first, got %s", hits[0].ContentID)
	}
}

func TestQueryFullText_UserScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testItem("id-1", "user-1", "note", "shared keyword")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, testItem("id-2", "user-2", "note", "shared keyword")); err != nil {
		t.Fatalf("create: %v", err)
	}

	hits, err := repo.QueryFullText(ctx, "user-1", "shared", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 || hits[0].ContentID != "id-1" {
		t.Fatalf("expected only user-1's hit, got %+v", hits)
	}
}

func TestQueryFullText_PhraseSyntax(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testItem("id-1", "user-1", "note", "the quick brown fox")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, testItem("id-2", "user-1", "note", "brown shoes and a quick lunch")); err != nil {
		t.Fatalf("create: %v", err)
	}

	hits, err := repo.QueryFullText(ctx, "user-1", `"quick brown"`, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 || hits[0].ContentID != "id-1" {
		t.Fatalf("expected only the phrase match, got %+v", hits)
	}
}

func TestQueryFullText_DeletedItemNotIndexed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testItem("id-1", "user-1", "note", "ephemeral content")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	hits, err := repo.QueryFullText(ctx, "user-1", "ephemeral", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits after delete, got %+v", hits)
	}
}

func TestListTags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testItem("id-1", "user-1", "a", "x", "notes", "work")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, testItem("id-2", "user-1", "b", "y", "notes")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, testItem("id-3", "user-2", "c", "z", "other")); err != nil {
		t.Fatalf("create: %v", err)
	}

	tags, err := repo.ListTags(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %+v", tags)
	}
	if tags[0].Name != "notes" || tags[0].Count != 2 {
		t.Errorf("expected notes:2 first, got %+v", tags[0])
	}
	if tags[1].Name != "work" || tags[1].Count != 1 {
		t.Errorf("expected work:1 second, got %+v", tags[1])
	}
}
