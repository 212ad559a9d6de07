package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHttpRequest(t *testing.T) {
	before := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/movies", "4xx"))
	RecordHttpRequest(http.MethodGet, "/api/v1/movies", http.StatusNotFound, time.Millisecond)
	after := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/movies", "4xx"))
	assert.Equal(t, before+1, after)
}

func TestRecordAccessDenied(t *testing.T) {
	before := testutil.ToFloat64(AccessDeniedTotal.WithLabelValues("forbidden"))
	RecordAccessDenied("forbidden")
	assert.Equal(t, before+1, testutil.ToFloat64(AccessDeniedTotal.WithLabelValues("forbidden")))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusCreated))
	assert.Equal(t, "3xx", statusClass(http.StatusFound))
	assert.Equal(t, "4xx", statusClass(http.StatusUnprocessableEntity))
	assert.Equal(t, "5xx", statusClass(http.StatusServiceUnavailable))
}
