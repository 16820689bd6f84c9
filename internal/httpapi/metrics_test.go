package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsEndpointExposesCounters(t *testing.T) {
	metricsIncRequest("GET /api/state", http.StatusOK)
	metricsIncAuthDenial("forbidden")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handleMetrics(rr, req)

	body := rr.Body.String()
	if !strings.Contains(body, "prism_http_requests_total ") {
		t.Errorf("missing total counter:\n%s", body)
	}
	if !strings.Contains(body, `prism_http_requests_by_pattern_total{pattern="GET /api/state",status="200"}`) {
		t.Errorf("missing pattern counter:\n%s", body)
	}
	if !strings.Contains(body, `prism_auth_denials_total{reason="forbidden"}`) {
		t.Errorf("missing denial counter:\n%s", body)
	}
}

func TestPromLabelEscape(t *testing.T) {
	if got, want := promLabelEscape(`a"b\c`), `a\"b\\c`; got != want {
		t.Errorf("escape = %q, want %q", got, want)
	}
}
