package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/observability"
)

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(zap.NewNop()))
	router.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		seen = correlationID(r)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	header := w.Header().Get("X-Correlation-ID")
	if header == "" {
		t.Fatal("X-Correlation-ID header not set")
	}
	if seen != header {
		t.Errorf("context id = %q, header = %q", seen, header)
	}
}

func TestCorrelationIDMiddleware_PropagatesID(t *testing.T) {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(zap.NewNop()))
	router.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		if loggerFromRequest(r) == nil {
			t.Error("request logger missing")
		}
	})

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Correlation-ID", "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "abc" {
		t.Errorf("X-Correlation-ID = %q, want abc", got)
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := func() float64 {
		return testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/items/{id}", "4xx"))
	}
	before := counter()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/42", nil))
	if got := counter(); got != before+1 {
		t.Errorf("httpRequestsTotal{route=/items/{id},4xx} = %v, want %v", got, before+1)
	}
}

func TestStatusCodeString(t *testing.T) {
	for code, want := range map[int]string{200: "2xx", 404: "4xx", 503: "5xx"} {
		if got := statusCodeString(code); got != want {
			t.Errorf("statusCodeString(%d) = %q, want %q", code, got, want)
		}
	}
}
