package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/metrics"
)

func TestObserveRequest(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest(backend.OpList, 200, 10*time.Millisecond, nil)
	m.ObserveRequest(backend.OpList, 200, 20*time.Millisecond, nil)
	m.ObserveRequest(backend.OpDelete, 0, time.Millisecond, errors.New("dial tcp: refused"))

	expected := `
# HELP research_library_backend_requests_total Backend requests by operation, status code, and outcome kind.
# TYPE research_library_backend_requests_total counter
research_library_backend_requests_total{code="0",op="delete",outcome="network_error"} 1
research_library_backend_requests_total{code="200",op="list",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "research_library_backend_requests_total"))
}

func TestObserveRefresh(t *testing.T) {
	m := metrics.New()

	m.ObserveRefresh(3, nil)
	m.ObserveRefresh(0, errors.New("boom"))

	expected := `
# HELP research_library_store_documents Documents in the last successful snapshot.
# TYPE research_library_store_documents gauge
research_library_store_documents 3
# HELP research_library_store_refreshes_total Document store refreshes by result.
# TYPE research_library_store_refreshes_total counter
research_library_store_refreshes_total{result="error"} 1
research_library_store_refreshes_total{result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"research_library_store_documents", "research_library_store_refreshes_total"))
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ObserveRefresh(1, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "research_library_store_documents 1")
}
