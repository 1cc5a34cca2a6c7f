package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/hit"
)

// Repo persists content metadata and extracted text in SQLite and serves
// full-text queries over the FTS index the schema triggers maintain.
type Repo struct {
	db *sql.DB
}

// New creates a content repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts the item and its tags in one transaction. The FTS index
// follows via triggers.
func (r *Repo) Create(ctx context.Context, item domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO content (uid, user_id, content_type, title, annotation, source, extracted_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, string(item.Type), item.Title, item.Annotation,
		item.Source, item.Text, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("content row id: %w", err)
	}

	for _, tag := range item.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO content_tags (content_id, tag) VALUES (?, ?)`,
			rowID, tag,
		); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	return tx.Commit()
}

// GetByID loads an item by its public id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Item, error) {
	var (
		item  domain.Item
		rowID int64
		ctype string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, uid, user_id, content_type, title, annotation, source, extracted_text, created_at, updated_at
		FROM content WHERE uid = ?`, id,
	).Scan(&rowID, &item.ID, &item.UserID, &ctype, &item.Title, &item.Annotation,
		&item.Source, &item.Text, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("select content: %w", err)
	}
	item.Type = domain.ContentType(ctype)

	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM content_tags WHERE content_id = ? ORDER BY tag`, rowID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("select tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return domain.Item{}, fmt.Errorf("scan tag: %w", err)
		}
		item.Tags = append(item.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return domain.Item{}, fmt.Errorf("iterate tags: %w", err)
	}

	return item, nil
}

// Delete removes an item. Tags cascade and the FTS row follows via trigger.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content WHERE uid = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// QueryFullText matches queryText against the FTS index using engine-native
// syntax (phrases, AND/OR/NOT) and returns hits best-first. SQLite's bm25
// rank is negative with lower meaning better, so it is negated to give a
// higher-is-better statistic.
func (r *Repo) QueryFullText(
	ctx context.Context, userID, queryText string, limit int,
) ([]hit.TextHit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.uid, -fts.rank
		FROM content_fts fts
		JOIN content c ON c.id = fts.rowid
		WHERE content_fts MATCH ? AND c.user_id = ?
		ORDER BY fts.rank
		LIMIT ?`, queryText, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []hit.TextHit
	for rows.Next() {
		var h hit.TextHit
		if err := rows.Scan(&h.ContentID, &h.Rank); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

// ListTags returns the user's distinct tags with usage counts,
// most used first, ties alphabetical.
func (r *Repo) ListTags(ctx context.Context, userID string) ([]domain.TagCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.tag, COUNT(*)
		FROM content_tags t
		JOIN content c ON c.id = t.content_id
		WHERE c.user_id = ?
		GROUP BY t.tag
		ORDER BY COUNT(*) DESC, t.tag`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []domain.TagCount
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}
