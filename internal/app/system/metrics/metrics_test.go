package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAuthRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveAuthRequest("ok", 10*time.Millisecond)
	c.ObserveAuthRequest("ok", 20*time.Millisecond)
	c.ObserveAuthRequest("empty", time.Millisecond)

	if got := testutil.ToFloat64(c.authRequests.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok outcomes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.authRequests.WithLabelValues("empty")); got != 1 {
		t.Errorf("empty outcomes = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.authLatency); n != 1 {
		t.Errorf("latency histogram series = %d, want 1", n)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/lists/title/{title}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Delete("/lists/{title}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	for _, path := range []string{"/lists/title/a", "/lists/title/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/lists/x", nil))

	got := testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/lists/title/{title}", "404"))
	if got != 2 {
		t.Errorf("GET requests = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodDelete, "/lists/{title}", "200"))
	if got != 1 {
		t.Errorf("DELETE requests = %v, want 1", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveAuthRequest("ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := rec.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "shoppingo_auth_requests_total") {
		t.Error("response should contain shoppingo_auth_requests_total")
	}
}
