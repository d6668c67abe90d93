package observability

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies that all metrics can be used without panic,
// ensuring label dimensions match usage in the sweep and http packages.
func TestMetrics_Usable(t *testing.T) {
	ConfigsGeneratedTotal.WithLabelValues("axi4").Inc()
	BuildsTotal.WithLabelValues("axi4", "success").Inc()
	BuildDuration.WithLabelValues("axi4", "success").Observe(3)
	BuildFailuresTotal.WithLabelValues("apb", "exit_status").Inc()
	CleanFailuresTotal.WithLabelValues("apb").Inc()
	CrossbarMasters.WithLabelValues("axi4l").Observe(4)
	CrossbarSlaves.WithLabelValues("axi4l").Observe(9)
	SweepIterationsRequested.WithLabelValues("axi4").Set(10)
	SweepIterationsCompleted.WithLabelValues("axi4").Set(2)
	HTTPRequestsTotal.WithLabelValues("GET", "/status", "2xx").Inc()
}

func TestRecordBuild(t *testing.T) {
	beforeOK := testutil.ToFloat64(BuildsTotal.WithLabelValues("test-design", "success"))
	beforeFail := testutil.ToFloat64(BuildFailuresTotal.WithLabelValues("test-design", "timeout"))

	RecordBuild("test-design", 1.5, "")
	RecordBuild("test-design", 9, "timeout")

	if got := testutil.ToFloat64(BuildsTotal.WithLabelValues("test-design", "success")); got != beforeOK+1 {
		t.Errorf("success builds = %v, want %v", got, beforeOK+1)
	}
	if got := testutil.ToFloat64(BuildFailuresTotal.WithLabelValues("test-design", "timeout")); got != beforeFail+1 {
		t.Errorf("timeout failures = %v, want %v", got, beforeFail+1)
	}
}

func TestRecordGenerated(t *testing.T) {
	before := testutil.ToFloat64(ConfigsGeneratedTotal.WithLabelValues("gen-design"))
	RecordGenerated("gen-design", 3, 5)
	if got := testutil.ToFloat64(ConfigsGeneratedTotal.WithLabelValues("gen-design")); got != before+1 {
		t.Errorf("configsGeneratedTotal = %v, want %v", got, before+1)
	}
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	ConfigsGeneratedTotal.WithLabelValues("axi4").Inc()
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "configsGeneratedTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}

func TestWriteMetricsFile(t *testing.T) {
	ConfigsGeneratedTotal.WithLabelValues("apb").Inc()
	path := filepath.Join(t.TempDir(), "fabricgen.prom")
	if err := WriteMetricsFile(path); err != nil {
		t.Fatalf("WriteMetricsFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `configsGeneratedTotal{design="apb"}`) {
		t.Errorf("metrics file missing generated counter:\n%s", data)
	}
}
