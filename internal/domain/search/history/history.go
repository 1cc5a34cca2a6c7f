package history

import (
	"time"

	"github.com/pocketmind/pocketmind/internal/domain/search/method"
)

// Record is an append-only log entry for a completed search. Records are
// written once and never mutated; there is no read path in the core.
type Record struct {
	ID          string
	UserID      string
	Query       string
	MethodUsed  method.Method
	ResultCount int
	CreatedAt   time.Time
}
