package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// metricsStore is intentionally tiny: a few counters are enough for basic
// observability without dragging in external dependencies or complex labeling.
type metricsStore struct {
	mu sync.Mutex

	httpRequestsTotal uint64
	httpByPattern     map[reqKey]uint64

	authDenials map[string]uint64
}

type reqKey struct {
	Pattern string
	Status  int
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		httpByPattern: make(map[reqKey]uint64),
		authDenials:   make(map[string]uint64),
	}
}

var metrics = newMetricsStore()

func metricsIncRequest(pattern string, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	if pattern == "" {
		pattern = "(unknown)"
	}

	metrics.mu.Lock()
	metrics.httpRequestsTotal++
	metrics.httpByPattern[reqKey{Pattern: pattern, Status: status}]++
	metrics.mu.Unlock()
}

func metricsIncAuthDenial(reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "(unknown)"
	}

	metrics.mu.Lock()
	metrics.authDenials[reason]++
	metrics.mu.Unlock()
}

type reqMetric struct {
	reqKey
	N uint64
}

type denialMetric struct {
	Reason string
	N      uint64
}

func metricsSnapshot() (httpTotal uint64, reqs []reqMetric, denials []denialMetric) {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()

	httpTotal = metrics.httpRequestsTotal

	reqs = make([]reqMetric, 0, len(metrics.httpByPattern))
	for k, n := range metrics.httpByPattern {
		reqs = append(reqs, reqMetric{reqKey: k, N: n})
	}
	denials = make([]denialMetric, 0, len(metrics.authDenials))
	for k, n := range metrics.authDenials {
		denials = append(denials, denialMetric{Reason: k, N: n})
	}

	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Pattern != reqs[j].Pattern {
			return reqs[i].Pattern < reqs[j].Pattern
		}
		return reqs[i].Status < reqs[j].Status
	})
	sort.Slice(denials, func(i, j int) bool {
		return denials[i].Reason < denials[j].Reason
	})
	return httpTotal, reqs, denials
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	// Plain text (Prometheus-ish). Keep it dependency-free.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	total, reqs, denials := metricsSnapshot()

	var b strings.Builder

	b.WriteString("# HELP prism_http_requests_total Total HTTP requests.\n")
	b.WriteString("# TYPE prism_http_requests_total counter\n")
	b.WriteString("prism_http_requests_total ")
	b.WriteString(strconv.FormatUint(total, 10))
	b.WriteByte('\n')

	b.WriteString("# HELP prism_http_requests_by_pattern_total HTTP requests by ServeMux pattern and status.\n")
	b.WriteString("# TYPE prism_http_requests_by_pattern_total counter\n")
	for _, m := range reqs {
		b.WriteString("prism_http_requests_by_pattern_total{pattern=\"")
		b.WriteString(promLabelEscape(m.Pattern))
		b.WriteString("\",status=\"")
		b.WriteString(strconv.Itoa(m.Status))
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(m.N, 10))
		b.WriteByte('\n')
	}

	b.WriteString("# HELP prism_auth_denials_total Server access denials by reason.\n")
	b.WriteString("# TYPE prism_auth_denials_total counter\n")
	for _, m := range denials {
		b.WriteString("prism_auth_denials_total{reason=\"")
		b.WriteString(promLabelEscape(m.Reason))
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(m.N, 10))
		b.WriteByte('\n')
	}

	_, _ = fmt.Fprint(w, b.String())
}

func promLabelEscape(s string) string {
	// Prometheus label value escaping: backslash and double quote.
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
