package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMain(m *testing.M) {
	RegisterHTTPMetrics()
	RegisterSearchMetrics()
	RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

func apiRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		})
		r.Delete("/content/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/tags", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := apiRouter()

	req := httptest.NewRequest("POST", "/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/v1/search", "200")); v < 1 {
		t.Errorf("expected http_requests_total for POST /v1/search >= 1, got %f", v)
	}
	if c := testutil.CollectAndCount(httpRequestDuration); c == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_ParameterizedRouteIsOneSeries(t *testing.T) {
	r := apiRouter()

	// Different item ids must land in the same route-pattern series.
	for _, id := range []string{"a1", "b2", "c3"} {
		req := httptest.NewRequest("DELETE", "/v1/content/"+id, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rr.Code)
		}
	}

	v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "/v1/content/{id}", "204"))
	if v < 3 {
		t.Errorf("expected 3 requests on the /v1/content/{id} series, got %f", v)
	}
}

func TestMiddleware_ErrorStatusRecorded(t *testing.T) {
	r := apiRouter()

	req := httptest.NewRequest("GET", "/v1/tags", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/tags", "503")); v < 1 {
		t.Errorf("expected http_requests_total for 503 >= 1, got %f", v)
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unmatched"},
		{"/v1/search", "/v1/search"},
		{"/v1/content/{id}", "/v1/content/{id}"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizeRoute(tc.input); got != tc.expected {
			t.Errorf("normalizeRoute(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestSearchFallbacksCounter(t *testing.T) {
	before := testutil.ToFloat64(SearchFallbacksTotal)
	SearchFallbacksTotal.Inc()
	after := testutil.ToFloat64(SearchFallbacksTotal)

	if after != before+1 {
		t.Errorf("expected fallback counter to advance by 1, got %f -> %f", before, after)
	}
}

func TestRegisterTwiceDoesNotPanic(t *testing.T) {
	// Guarded registration must be safe to call again.
	RegisterHTTPMetrics()
	RegisterSearchMetrics()
	RegisterEmbeddingMetrics()
}
