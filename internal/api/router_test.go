package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"dispatch-route-solver/internal/domain"
)

type emptyRepo struct{}

func (emptyRepo) LoadInstance(context.Context) (domain.Instance, error) {
	return domain.Instance{}, nil
}

type zeroProvider struct{}

func (zeroProvider) TravelTime(context.Context, domain.Location, domain.Location, bool) (int64, error) {
	return 0, nil
}

func TestRouterServesHealth(t *testing.T) {
	router := NewRouter(emptyRepo{}, zeroProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRouterAssignsRequestIDs(t *testing.T) {
	router := NewRouter(emptyRepo{}, zeroProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterHonorsIncomingRequestID(t *testing.T) {
	router := NewRouter(emptyRepo{}, zeroProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRouterUnknownPath(t *testing.T) {
	router := NewRouter(emptyRepo{}, zeroProvider{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
