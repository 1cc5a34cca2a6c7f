package chi

import (
	"fmt"
	"net/url"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/pocketmind/pocketmind/internal/domain"
	"github.com/pocketmind/pocketmind/internal/domain/search/filter"
)

type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeNotFound               errorCode = "not_found"
	codeServiceUnavailable     errorCode = "service_unavailable"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeInternalError          errorCode = "internal_error"
)

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	Mode    string         `json:"mode,omitempty"`
	Limit   *int           `json:"limit,omitempty"`
	Filters *searchFilters `json:"filters,omitempty"`
}

type searchFilters struct {
	ContentTypes []string   `json:"content_types,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	DateFrom     *time.Time `json:"date_from,omitempty"`
	DateTo       *time.Time `json:"date_to,omitempty"`
}

type searchResponse struct {
	Results      []searchResultItem `json:"results"`
	TotalResults int                `json:"total_results"`
	MethodUsed   string             `json:"method_used"`
}

type searchResultItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title,omitempty"`
	Excerpt        string         `json:"excerpt,omitempty"`
	ContentType    string         `json:"content_type"`
	RelevanceScore float64        `json:"relevance_score"`
	Metadata       resultMetadata `json:"metadata"`
}

type resultMetadata struct {
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Source     string    `json:"source,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
}

type captureRequest struct {
	Type       string   `json:"type"`
	Title      string   `json:"title,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
	Source     string   `json:"source,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Text       string   `json:"text,omitempty"`
}

type contentResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
	Source     string    `json:"source,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Text       string    `json:"text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type tagItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type tagListResponse struct {
	Tags []tagItem `json:"tags"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// searchRequestFromQuery binds GET /v1/search parameters from the query
// string into the same request shape the POST handler decodes from JSON.
func searchRequestFromQuery(values url.Values) (searchRequest, error) {
	var req searchRequest

	if err := runtime.BindQueryParameter("form", true, true, "query", values, &req.Query); err != nil {
		return searchRequest{}, fmt.Errorf("parameter query: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "mode", values, &req.Mode); err != nil {
		return searchRequest{}, fmt.Errorf("parameter mode: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", values, &req.Limit); err != nil {
		return searchRequest{}, fmt.Errorf("parameter limit: %w", err)
	}

	var f searchFilters
	if err := runtime.BindQueryParameter("form", true, false, "content_types", values, &f.ContentTypes); err != nil {
		return searchRequest{}, fmt.Errorf("parameter content_types: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "tags", values, &f.Tags); err != nil {
		return searchRequest{}, fmt.Errorf("parameter tags: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "date_from", values, &f.DateFrom); err != nil {
		return searchRequest{}, fmt.Errorf("parameter date_from: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "date_to", values, &f.DateTo); err != nil {
		return searchRequest{}, fmt.Errorf("parameter date_to: %w", err)
	}
	if len(f.ContentTypes) > 0 || len(f.Tags) > 0 || f.DateFrom != nil || f.DateTo != nil {
		req.Filters = &f
	}

	return req, nil
}

func filtersFromRequest(f *searchFilters) filter.Filters {
	if f == nil {
		return filter.Filters{}
	}

	var types []domain.ContentType
	if len(f.ContentTypes) > 0 {
		types = make([]domain.ContentType, len(f.ContentTypes))
		for i, ct := range f.ContentTypes {
			types[i] = domain.ContentType(ct)
		}
	}

	return filter.Filters{
		ContentTypes: types,
		Tags:         f.Tags,
		DateFrom:     f.DateFrom,
		DateTo:       f.DateTo,
	}
}
