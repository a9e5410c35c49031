// Package v1 implements the REST API.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/shelfgraph/shelfgraph/internal/profile"
	"github.com/shelfgraph/shelfgraph/plugin/ai"
	"github.com/shelfgraph/shelfgraph/plugin/ai/analysis"
	"github.com/shelfgraph/shelfgraph/plugin/ai/suggest"
	"github.com/shelfgraph/shelfgraph/plugin/openlibrary"
	"github.com/shelfgraph/shelfgraph/server/middleware"
	"github.com/shelfgraph/shelfgraph/store"
)

type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	OpenLibrary *openlibrary.Client
	Analyzer    *analysis.Analyzer
	Suggester   *suggest.Suggester

	rateLimiter *middleware.RateLimiter
}

func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store) *APIV1Service {
	service := &APIV1Service{
		Secret:      secret,
		Profile:     profile,
		Store:       store,
		OpenLibrary: openlibrary.NewClient(profile.OpenLibraryURL),
		rateLimiter: middleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst),
	}

	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(ai.ConfigFromProfile(profile))
		if err != nil {
			slog.Warn("AI provider disabled", slog.Any("error", err))
		} else {
			service.Analyzer = analysis.NewAnalyzer(provider, store, provider.Model(), profile.AIMaxWorkers)
			service.Suggester = suggest.NewSuggester(provider, store)
		}
	}

	return service
}

// Register wires the API routes into the echo server.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.POST("/api/v1/auth/signup", s.SignUp)
	echoServer.POST("/api/v1/auth/signin", s.SignIn)

	g := echoServer.Group("/api/v1", s.authMiddleware)
	g.GET("/user/me", s.GetCurrentUser)
	g.PATCH("/user/me", s.UpdateCurrentUser)
	g.DELETE("/user/me", s.DeleteCurrentUser)

	g.GET("/books", s.ListBooks)
	g.POST("/books", s.CreateBook)
	g.GET("/books/export", s.ExportBooks)
	g.POST("/books/import", s.ImportBooks)
	g.POST("/books/bulk", s.BulkAddBooks)
	g.GET("/books/:uid", s.GetBook)
	g.PATCH("/books/:uid", s.UpdateBook)
	g.DELETE("/books/:uid", s.DeleteBook)
	g.GET("/books/:uid/related", s.GetRelatedBooks)

	g.GET("/graph", s.GetGraph)
	g.GET("/graph/connected", s.GetConnectedBooks)

	g.GET("/lookup/books", s.LookupBooks)

	g.POST("/ai/analyze/books/:uid", s.AnalyzeBook)
	g.POST("/ai/analyze/library", s.AnalyzeLibrary)
	g.POST("/ai/suggestions", s.GenerateSuggestions)
	g.GET("/suggestions", s.ListSuggestions)
	g.POST("/suggestions/:uid/dismiss", s.DismissSuggestion)
}
