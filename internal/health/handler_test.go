// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func get(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "database", Checker: pingFunc(healthy)},
		Dependency{Name: "redis", Checker: pingFunc(healthy)},
	)

	rec := get(t, h, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.Equal(t, "redis", body.Checks[1].Name)
}

func TestReadiness_DependencyDown(t *testing.T) {
	h := NewHandler(
		Dependency{Name: "database", Checker: pingFunc(healthy)},
		Dependency{Name: "redis", Checker: pingFunc(func(context.Context) error {
			return errors.New("connection refused")
		})},
		Dependency{Name: "cache"},
	)

	rec := get(t, h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, body.Checks[0].Healthy)
	assert.False(t, body.Checks[1].Healthy)
	assert.Equal(t, "ping failed", body.Checks[1].Message)
	assert.Equal(t, "cache checker not configured", body.Checks[2].Message)
}

func TestShutdownFlipsBothProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "database", Checker: pingFunc(healthy)})

	assert.Equal(t, http.StatusOK, get(t, h, "/livez").Code)

	h.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	h.SetShutdown(true)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "shutting_down", body.Status)
}
