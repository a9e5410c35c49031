package v1

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shelfgraph/shelfgraph/internal/profile"
)

func TestRegisterRoutes(t *testing.T) {
	service := NewAPIV1Service("secret", &profile.Profile{}, nil)
	echoServer := echo.New()
	service.Register(echoServer)

	registered := make(map[string]bool)
	for _, route := range echoServer.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/signup",
		"POST /api/v1/auth/signin",
		"GET /api/v1/user/me",
		"PATCH /api/v1/user/me",
		"DELETE /api/v1/user/me",
		"GET /api/v1/books",
		"POST /api/v1/books",
		"DELETE /api/v1/books/:uid",
		"GET /api/v1/books/:uid/related",
		"GET /api/v1/graph",
		"GET /api/v1/graph/connected",
		"POST /api/v1/ai/analyze/library",
		"POST /api/v1/suggestions/:uid/dismiss",
	} {
		require.True(t, registered[want], "missing route %s", want)
	}
}
