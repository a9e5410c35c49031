package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
)

// newHTTPErrorHandler maps structured API errors onto HTTP statuses and a
// stable JSON shape; anything else falls through to the echo default.
// Internal errors keep their cause out of the response, so log it here.
func newHTTPErrorHandler(echoServer *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			if apierrors.IsCode(apiErr, apierrors.ErrCodeInternal) {
				slog.Error("request failed",
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.Any("error", apiErr))
			}
			if !c.Response().Committed {
				_ = c.JSON(statusForCode(apiErr.Code), map[string]string{
					"code":    string(apiErr.Code),
					"message": apiErr.Message,
				})
			}
			return
		}
		echoServer.DefaultHTTPErrorHandler(err, c)
	}
}

func statusForCode(code apierrors.ErrorCode) int {
	switch code {
	case apierrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apierrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apierrors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case apierrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apierrors.ErrCodeAIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
