package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketmind/pocketmind/internal/domain/search/history"
)

// Repo appends search records to the append-only history table.
type Repo struct {
	db *sql.DB
}

// New creates a history repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Append inserts one search record.
func (r *Repo) Append(ctx context.Context, rec history.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_history (id, user_id, query, method_used, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Query, string(rec.MethodUsed), rec.ResultCount, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}
