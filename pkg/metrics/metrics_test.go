package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/v1/posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/posts/"+id+"/comments", nil))
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/v1/posts/{id}/comments", "404"))
	if got != 3 {
		t.Fatalf("requests_total = %v, want 3", got)
	}
	if n := testutil.CollectAndCount(m.httpRequests); n != 1 {
		t.Fatalf("expected one series, got %d", n)
	}
}

func TestHandlerExposesAuthCounter(t *testing.T) {
	m := New()
	m.RecordAuth("ok")
	m.RecordAuth("")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{`social_auth_attempts_total{outcome="ok"} 1`, `social_auth_attempts_total{outcome="unknown"} 1`} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecordAuthNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordAuth("ok")
}
