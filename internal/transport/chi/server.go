package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/mode"
	"github.com/pocketmind/pocketmind/internal/domain/search/query"
	"github.com/pocketmind/pocketmind/internal/domain/search/result"
	captureuc "github.com/pocketmind/pocketmind/internal/usecase/capture"
	healthuc "github.com/pocketmind/pocketmind/internal/usecase/health"
	searchuc "github.com/pocketmind/pocketmind/internal/usecase/search"
	taguc "github.com/pocketmind/pocketmind/internal/usecase/tag"
)

// userIDHeader identifies the caller. Every /v1 route is scoped to one user.
const userIDHeader = "X-User-ID"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the capture and search use cases over HTTP.
type Server struct {
	search        *searchuc.Service
	capture       *captureuc.Service
	tags          *taguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	capture *captureuc.Service,
	tags *taguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		capture: capture,
		tags:    tags,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidContent, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrServiceUnavailable, http.StatusServiceUnavailable, codeServiceUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Routes mounts all handlers on a chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/search", s.SearchByQuery)
		r.Post("/content", s.CaptureContent)
		r.Delete("/content/{id}", s.DeleteContent)
		r.Get("/tags", s.ListTags)
	})

	return r
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := queryFromRequest(req, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	outcome, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcomeToResponse(outcome))
}

// SearchByQuery handles GET /v1/search. The same search, parameters bound
// from the query string.
func (s *Server) SearchByQuery(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	req, err := searchRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	q, err := queryFromRequest(req, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	outcome, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcomeToResponse(outcome))
}

// CaptureContent handles POST /v1/content.
func (s *Server) CaptureContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.capture.Capture(r.Context(), captureuc.Draft{
		UserID:     userID,
		Type:       domain.ContentType(req.Type),
		Title:      req.Title,
		Annotation: req.Annotation,
		Source:     req.Source,
		Tags:       req.Tags,
		Text:       req.Text,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/content/"+item.ID)
	writeJSON(w, http.StatusCreated, itemToResponse(&item))
}

// DeleteContent handles DELETE /v1/content/{id}.
func (s *Server) DeleteContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.capture.Delete(r.Context(), userID, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTags handles GET /v1/tags.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	tags, err := s.tags.List(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]tagItem, len(tags))
	for i, t := range tags {
		items[i] = tagItem{Name: t.Name, Count: t.Count}
	}
	writeJSON(w, http.StatusOK, tagListResponse{Tags: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "missing "+userIDHeader+" header")
		return "", false
	}
	return userID, true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidContent,
		domain.ErrNotFound,
		domain.ErrServiceUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func outcomeToResponse(o result.Outcome) searchResponse {
	items := make([]searchResultItem, len(o.Results))
	for i := range o.Results {
		items[i] = resultToItem(&o.Results[i])
	}
	return searchResponse{
		Results:      items,
		TotalResults: o.TotalResults,
		MethodUsed:   string(o.MethodUsed),
	}
}

func resultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		ID:             r.ID,
		Title:          r.Title,
		Excerpt:        r.Excerpt,
		ContentType:    string(r.ContentType),
		RelevanceScore: r.RelevanceScore,
		Metadata: resultMetadata{
			Tags:       r.Metadata.Tags,
			CreatedAt:  r.Metadata.CreatedAt,
			UpdatedAt:  r.Metadata.UpdatedAt,
			Source:     r.Metadata.Source,
			Annotation: r.Metadata.Annotation,
		},
	}
}

func itemToResponse(item *domain.Item) contentResponse {
	return contentResponse{
		ID:         item.ID,
		Type:       string(item.Type),
		Title:      item.Title,
		Annotation: item.Annotation,
		Source:     item.Source,
		Tags:       item.Tags,
		Text:       item.Text,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// queryFromRequest builds a validated query. Callers that sent no limit get
// the default; an explicit out-of-range limit is rejected by query.New.
func queryFromRequest(req searchRequest, userID string) (query.Query, error) {
	limit := query.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	return query.New(req.Query, userID, mode.Mode(req.Mode), filtersFromRequest(req.Filters), limit)
}
