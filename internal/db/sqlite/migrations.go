package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// applyMigrations runs every migration in order inside one transaction.
// Statements are idempotent (IF NOT EXISTS) so re-running is safe.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, m := range migrations {
		if _, err := tx.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

var migrations = []string{schemaV1}

const schemaV1 = `
-- Captured content items. uid is the public identifier; the integer rowid
-- backs the FTS external-content table.
CREATE TABLE IF NOT EXISTS content (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT NOT NULL UNIQUE,
    user_id TEXT NOT NULL,
    content_type TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    annotation TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    extracted_text TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_content_user ON content(user_id);
CREATE INDEX IF NOT EXISTS idx_content_user_type ON content(user_id, content_type);

CREATE TABLE IF NOT EXISTS content_tags (
    content_id INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (content_id, tag),
    FOREIGN KEY (content_id) REFERENCES content(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_content_tags_tag ON content_tags(tag);

-- Full-text index over the searchable fields, kept in sync by triggers.
CREATE VIRTUAL TABLE IF NOT EXISTS content_fts USING fts5(
    title, annotation, extracted_text,
    content='content',
    content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS content_ai AFTER INSERT ON content BEGIN
    INSERT INTO content_fts(rowid, title, annotation, extracted_text)
    VALUES (new.id, new.title, new.annotation, new.extracted_text);
END;

CREATE TRIGGER IF NOT EXISTS content_ad AFTER DELETE ON content BEGIN
    INSERT INTO content_fts(content_fts, rowid, title, annotation, extracted_text)
    VALUES ('delete', old.id, old.title, old.annotation, old.extracted_text);
END;

CREATE TRIGGER IF NOT EXISTS content_au AFTER UPDATE ON content BEGIN
    INSERT INTO content_fts(content_fts, rowid, title, annotation, extracted_text)
    VALUES ('delete', old.id, old.title, old.annotation, old.extracted_text);
    INSERT INTO content_fts(rowid, title, annotation, extracted_text)
    VALUES (new.id, new.title, new.annotation, new.extracted_text);
END;

-- Append-only search log.
CREATE TABLE IF NOT EXISTS search_history (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    query TEXT NOT NULL,
    method_used TEXT NOT NULL,
    result_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_user ON search_history(user_id, created_at);
`
