package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func TestMetricsEndpoint(t *testing.T) {
	// Vector metrics only appear once a label set has been used
	RecordFetch("success", 10*time.Millisecond)
	RecordCacheResult("miss")
	SetCircuitBreakerState("init", "CLOSED")
	RecordCircuitBreakerTrip("init")
	RecordRewrite("ok", time.Millisecond)
	ObserveSectionRecords("stream", 3)

	output := scrape(t)

	expectedMetrics := []string{
		"hlsort_fetch_requests_total",
		"hlsort_fetch_duration_seconds",
		"hlsort_cache_results_total",
		"hlsort_circuit_breaker_state",
		"hlsort_circuit_breaker_trips_total",
		"hlsort_rewrites_total",
		"hlsort_rewrite_duration_seconds",
		"hlsort_section_records",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, metric) {
			t.Errorf("Expected metric %s not found in output", metric)
		}
	}
}

func TestCircuitBreakerStateValues(t *testing.T) {
	tests := []struct {
		state string
		value string
	}{
		{"CLOSED", "0"},
		{"OPEN", "1"},
		{"HALF-OPEN", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			SetCircuitBreakerState("cdn.example.com", tt.state)

			output := scrape(t)

			expectedLine := `hlsort_circuit_breaker_state{host="cdn.example.com"} ` + tt.value
			if !strings.Contains(output, expectedLine) {
				t.Errorf("Expected to find %s in output for state %s", expectedLine, tt.state)
			}
		})
	}
}

func TestMetricsLabels(t *testing.T) {
	RecordFetch("error", time.Second)
	RecordCacheResult("stale")
	RecordRewrite("parse_error", time.Millisecond)
	ObserveSectionRecords("iframe", 0)

	output := scrape(t)

	expectedLabels := []string{
		`result="error"`,
		`outcome="stale"`,
		`result="parse_error"`,
		`section="iframe"`,
	}

	for _, label := range expectedLabels {
		if !strings.Contains(output, label) {
			t.Errorf("Expected to find label %s in output", label)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordRewrite("ok", time.Millisecond)

	path := filepath.Join(t.TempDir(), "hlsort.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `hlsort_rewrites_total{result="ok"}`) {
		t.Errorf("textfile missing rewrite counter:\n%s", data)
	}
}

func TestWriteTextfileInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hlsort.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
}
