package v1

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfgraph/shelfgraph/server/auth"
	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/store"
)

const userContextKey = "shelfgraph-user"

// authMiddleware resolves the bearer token into a user and applies the
// per-user rate limit.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request().Header.Get("Authorization"))
		if token == "" {
			return apierrors.Unauthorized("missing access token")
		}

		userID, err := auth.ParseAccessToken(token, []byte(s.Secret))
		if err != nil {
			return apierrors.Unauthorized("invalid or expired access token")
		}

		user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &userID})
		if err != nil {
			return internalError(err)
		}
		if user == nil {
			return apierrors.Unauthorized("user not found")
		}

		if !s.rateLimiter.AllowUser(user.ID) {
			return apierrors.RateLimitExceeded("rate limit exceeded")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser returns the authenticated user resolved by authMiddleware.
func currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}
