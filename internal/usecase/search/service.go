package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pocketmind/pocketmind/internal/domain/search/candidate"
	"github.com/pocketmind/pocketmind/internal/domain/search/history"
	"github.com/pocketmind/pocketmind/internal/domain/search/method"
	"github.com/pocketmind/pocketmind/internal/domain/search/mode"
	"github.com/pocketmind/pocketmind/internal/domain/search/query"
	"github.com/pocketmind/pocketmind/internal/domain/search/result"
	"github.com/pocketmind/pocketmind/internal/logger"
	"github.com/pocketmind/pocketmind/internal/metrics"
)

// Config holds the read-only knobs of the search orchestrator.
type Config struct {
	// AdapterTimeout bounds each vector / full-text adapter call.
	AdapterTimeout time.Duration
	// ScoreFloor is the lowest normalized score assigned to a full-text hit.
	ScoreFloor float64
	// HistoryTimeout bounds the detached history write.
	HistoryTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.AdapterTimeout <= 0 {
		c.AdapterTimeout = 5 * time.Second
	}
	if c.ScoreFloor <= 0 || c.ScoreFloor >= 1 {
		c.ScoreFloor = DefaultScoreFloor
	}
	if c.HistoryTimeout <= 0 {
		c.HistoryTimeout = 2 * time.Second
	}
	return c
}

// Service orchestrates hybrid search: vector and full-text retrieval with
// automatic fallback, deduplication, filtering, and history logging.
type Service struct {
	embed   Embedder
	vectors VectorIndex
	texts   TextIndex
	meta    MetadataReader
	history HistoryWriter
	cfg     Config
}

// New creates a search orchestrator.
func New(
	embed Embedder, vectors VectorIndex, texts TextIndex,
	meta MetadataReader, hist HistoryWriter, cfg Config,
) *Service {
	return &Service{
		embed:   embed,
		vectors: vectors,
		texts:   texts,
		meta:    meta,
		history: hist,
		cfg:     cfg.withDefaults(),
	}
}

// Search executes a validated query and returns ranked, filtered results
// with the method that actually answered. Adapter failures are absorbed
// through fallback whenever an alternative method remains; only total
// unavailability surfaces to the caller.
func (s *Service) Search(ctx context.Context, q *query.Query) (result.Outcome, error) {
	start := time.Now()

	cands, used, err := s.retrieve(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "error").Inc()
		return result.Outcome{}, err
	}

	filtered, err := s.applyFilters(ctx, q, mergeCandidates(cands...))
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "error").Inc()
		return result.Outcome{}, err
	}

	total := len(filtered)
	if total > q.Limit() {
		filtered = filtered[:q.Limit()]
	}

	outcome := result.Outcome{Results: filtered, TotalResults: total, MethodUsed: used}
	s.logHistory(ctx, q, used, total)

	metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "success").Inc()
	metrics.SearchDuration.WithLabelValues(string(used)).Observe(time.Since(start).Seconds())

	return outcome, nil
}

// retrieve runs the mode-specific adapter plan and reports which method
// contributed the returned candidate lists.
func (s *Service) retrieve(
	ctx context.Context, q *query.Query,
) ([][]candidate.Candidate, method.Method, error) {
	switch q.Mode() {
	case mode.VectorOnly:
		vec, err := s.runVector(ctx, q)
		if err != nil {
			// Explicit vector mode gets no silent fallback.
			return nil, "", err
		}
		return [][]candidate.Candidate{vec}, method.Vector, nil

	case mode.Combined:
		return s.retrieveCombined(ctx, q)

	default: // mode.Auto
		vec, err := s.runVector(ctx, q)
		if err == nil && len(vec) > 0 {
			return [][]candidate.Candidate{vec}, method.Vector, nil
		}
		if err != nil {
			logger.FromContext(ctx).Warn("vector search unavailable, falling back to full-text",
				zap.Error(err))
		}
		metrics.SearchFallbacksTotal.Inc()
		fts, ferr := s.runFullText(ctx, q)
		if ferr != nil {
			return nil, "", ferr
		}
		return [][]candidate.Candidate{fts}, method.FTS, nil
	}
}

// adapterOutcome carries one backend's settled result across the fan-in.
type adapterOutcome struct {
	cands []candidate.Candidate
	err   error
}

// retrieveCombined fans out both adapters concurrently and waits for both
// to settle. One backend may fail; the call errors only when neither can
// contribute. MethodUsed is combined only when both produced candidates.
func (s *Service) retrieveCombined(
	ctx context.Context, q *query.Query,
) ([][]candidate.Candidate, method.Method, error) {
	vecCh := make(chan adapterOutcome, 1)
	ftsCh := make(chan adapterOutcome, 1)

	go func() {
		cands, err := s.runVector(ctx, q)
		vecCh <- adapterOutcome{cands: cands, err: err}
	}()
	go func() {
		cands, err := s.runFullText(ctx, q)
		ftsCh <- adapterOutcome{cands: cands, err: err}
	}()

	var vec, fts adapterOutcome
	var vecDone, ftsDone bool
	for !vecDone || !ftsDone {
		select {
		case vec = <-vecCh:
			vecDone = true
		case fts = <-ftsCh:
			ftsDone = true
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}

	log := logger.FromContext(ctx)
	switch {
	case vec.err != nil && fts.err != nil:
		log.Warn("vector search unavailable in combined mode", zap.Error(vec.err))
		return nil, "", fts.err
	case vec.err != nil:
		log.Warn("vector search unavailable in combined mode, using full-text only",
			zap.Error(vec.err))
		return [][]candidate.Candidate{fts.cands}, method.FTS, nil
	case fts.err != nil:
		log.Warn("full-text search unavailable in combined mode, using vector only",
			zap.Error(fts.err))
		return [][]candidate.Candidate{vec.cands}, method.Vector, nil
	}

	// Combined is reported only when both backends contributed candidates.
	// An all-empty outcome is attributed to the vector method, matching
	// vector_only's empty-result semantics.
	var used method.Method
	switch {
	case len(vec.cands) > 0 && len(fts.cands) > 0:
		used = method.Combined
	case len(fts.cands) > 0:
		used = method.FTS
	default:
		used = method.Vector
	}
	return [][]candidate.Candidate{vec.cands, fts.cands}, used, nil
}

// logHistory appends the search record off the request path. The write gets
// a detached context with its own timeout so a slow or failed insert can
// neither delay nor fail the response.
func (s *Service) logHistory(ctx context.Context, q *query.Query, used method.Method, count int) {
	rec := history.Record{
		ID:          uuid.NewString(),
		UserID:      q.UserID(),
		Query:       q.Text(),
		MethodUsed:  used,
		ResultCount: count,
		CreatedAt:   time.Now().UTC(),
	}

	log := logger.FromContext(ctx)
	detached := context.WithoutCancel(ctx)
	timeout := s.cfg.HistoryTimeout

	go func() {
		writeCtx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		if err := s.history.Append(writeCtx, rec); err != nil {
			log.Warn("failed to record search history", zap.Error(err))
		}
	}()
}
