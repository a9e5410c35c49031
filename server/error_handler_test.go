package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code apierrors.ErrorCode
		want int
	}{
		{apierrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{apierrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{apierrors.ErrCodeInvalidArgument, http.StatusBadRequest},
		{apierrors.ErrCodeNotFound, http.StatusNotFound},
		{apierrors.ErrCodeAIUnavailable, http.StatusServiceUnavailable},
		{apierrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, statusForCode(tt.code))
	}
}

func TestHTTPErrorHandlerWritesAPIError(t *testing.T) {
	echoServer := echo.New()
	echoServer.HTTPErrorHandler = newHTTPErrorHandler(echoServer)
	echoServer.GET("/missing", func(echo.Context) error {
		return apierrors.NotFound("book not found")
	})
	echoServer.GET("/broken", func(echo.Context) error {
		return apierrors.Wrap(errors.New("connection refused"), apierrors.ErrCodeInternal, "unexpected server error")
	})

	rec := httptest.NewRecorder()
	echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
	require.Contains(t, rec.Body.String(), "book not found")

	// The cause stays out of the response body.
	rec = httptest.NewRecorder()
	echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHTTPErrorHandlerFallsThrough(t *testing.T) {
	echoServer := echo.New()
	echoServer.HTTPErrorHandler = newHTTPErrorHandler(echoServer)
	echoServer.GET("/teapot", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
