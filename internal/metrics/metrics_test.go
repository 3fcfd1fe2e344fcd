package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Popov85/challenge-graph/internal/graph"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(reg), reg
}

func TestObserveApply(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveApply("fresh", time.Millisecond)
	m.ObserveApply("fresh", time.Millisecond)
	m.ObserveApply("rejected", time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.applyTotal.WithLabelValues("fresh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applyTotal.WithLabelValues("rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.applyTotal.WithLabelValues("bridge")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.applyDuration))
}

func TestObserveGraph(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveGraph(graph.Stats{Nodes: 5, Connections: 14, Components: 2})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.nodes))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.components))
}

func TestObserveJournalError(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.ObserveJournalError()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.journalErrors))
}

func TestObserveRequest(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.ObserveRequest("POST", "/task/apply/:connectFrom", 400)

	expected := `
# HELP graphd_http_requests_total HTTP requests by route and status
# TYPE graphd_http_requests_total counter
graphd_http_requests_total{method="POST",route="/task/apply/:connectFrom",status="400"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "graphd_http_requests_total")
	assert.NoError(t, err)
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Registering twice on distinct registries must not panic.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestHandler(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.ObserveApply("bridge", time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `graphd_apply_total{result="bridge"} 1`)
}
