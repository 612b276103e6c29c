package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	healthy bool
}

func (f *fakeReporter) Health() bool {
	return f.healthy
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Run("healthy with reporters", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(&fakeReporter{healthy: true}, &fakeReporter{healthy: true}, "test")
		checker.RegisterRoutes(e)

		rec := get(e, "/api/v1/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "healthy", status.Checks["kafka_consumer"].Status)
		assert.Equal(t, "healthy", status.Checks["kafka_producer"].Status)
	})

	t.Run("unhealthy consumer degrades status", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(&fakeReporter{healthy: false}, &fakeReporter{healthy: true}, "test")
		checker.RegisterRoutes(e)

		rec := get(e, "/api/v1/health")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("nil reporters are skipped", func(t *testing.T) {
		e := echo.New()
		checker := NewChecker(nil, nil, "test")
		checker.RegisterRoutes(e)

		rec := get(e, "/api/v1/health")
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Empty(t, status.Checks)
	})
}

func TestReadiness(t *testing.T) {
	e := echo.New()
	checker := NewChecker(nil, nil, "test")
	checker.RegisterRoutes(e)

	assert.Equal(t, http.StatusServiceUnavailable, get(e, "/api/v1/health/ready").Code)

	checker.SetReady(true)
	assert.Equal(t, http.StatusOK, get(e, "/api/v1/health/ready").Code)

	assert.Equal(t, http.StatusOK, get(e, "/api/v1/health/live").Code)
}
