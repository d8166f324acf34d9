package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("Should count requests and errors by label", func(t *testing.T) {
		m := NewMetrics("dine")
		m.RecordRequest("/menu", "GET", 200, 5*time.Millisecond)
		m.RecordRequest("/menu", "GET", 200, 7*time.Millisecond)
		m.RecordError("/users", "GET", "FORBIDDEN")

		assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/menu", "GET", "200")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/users", "GET", "FORBIDDEN")))
	})

	t.Run("Should tolerate a nil receiver", func(t *testing.T) {
		var m *Metrics
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
	})

	t.Run("Should expose the registry over HTTP", func(t *testing.T) {
		m := NewMetrics("dine")
		m.RecordRequest("/review", "GET", 200, time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `dine_http_requests_total{method="GET",route="/review",status="200"} 1`)
	})
}
