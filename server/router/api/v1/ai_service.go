package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/server/internal/observability"
	"github.com/shelfgraph/shelfgraph/store"
)

func (s *APIV1Service) aiEnabled() bool {
	return s.Analyzer != nil && s.Suggester != nil
}

// AnalyzeBook runs the AI analysis for one book.
func (s *APIV1Service) AnalyzeBook(c echo.Context) error {
	if !s.aiEnabled() {
		return apierrors.AIUnavailable("AI is not configured")
	}
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	reqCtx := observability.NewRequestContext(slog.Default(), "analyze_book", user.ID)
	analysis, err := s.Analyzer.AnalyzeBook(ctx, user.ID, uid)
	if err != nil {
		reqCtx.Error("book analysis failed", err)
		return errorResponse(http.StatusBadGateway, err.Error())
	}
	reqCtx.Info("book analysis finished", slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, convertAnalysis(analysis))
}

// AnalyzeLibrary runs the AI analysis for every book of the user.
func (s *APIV1Service) AnalyzeLibrary(c echo.Context) error {
	if !s.aiEnabled() {
		return apierrors.AIUnavailable("AI is not configured")
	}
	ctx := c.Request().Context()
	user := currentUser(c)

	reqCtx := observability.NewRequestContext(slog.Default(), "analyze_library", user.ID)
	if err := s.Analyzer.AnalyzeLibrary(ctx, user.ID); err != nil {
		reqCtx.Error("library analysis failed", err)
		return errorResponse(http.StatusBadGateway, err.Error())
	}
	reqCtx.Info("library analysis finished", slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.NoContent(http.StatusNoContent)
}

// GenerateSuggestions refreshes the user's reading suggestions.
func (s *APIV1Service) GenerateSuggestions(c echo.Context) error {
	if !s.aiEnabled() {
		return apierrors.AIUnavailable("AI is not configured")
	}
	ctx := c.Request().Context()
	user := currentUser(c)

	reqCtx := observability.NewRequestContext(slog.Default(), "suggest_books", user.ID)
	suggestions, err := s.Suggester.SuggestBooks(ctx, user.ID)
	if err != nil {
		reqCtx.Error("suggestion generation failed", err)
		return errorResponse(http.StatusBadGateway, err.Error())
	}
	reqCtx.Info("suggestions generated", slog.Int("count", len(suggestions)))

	responses := make([]*suggestionResponse, 0, len(suggestions))
	for _, suggestion := range suggestions {
		responses = append(responses, convertSuggestion(suggestion))
	}
	return c.JSON(http.StatusOK, responses)
}

// ListSuggestions lists the user's non-dismissed suggestions.
func (s *APIV1Service) ListSuggestions(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	dismissed := false
	suggestions, err := s.Store.ListBookSuggestions(ctx, &store.FindBookSuggestion{
		CreatorID: &user.ID,
		Dismissed: &dismissed,
	})
	if err != nil {
		return internalError(err)
	}

	responses := make([]*suggestionResponse, 0, len(suggestions))
	for _, suggestion := range suggestions {
		responses = append(responses, convertSuggestion(suggestion))
	}
	return c.JSON(http.StatusOK, responses)
}

// DismissSuggestion hides a suggestion so it is not resurfaced.
func (s *APIV1Service) DismissSuggestion(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	suggestion, err := s.Store.GetBookSuggestion(ctx, &store.FindBookSuggestion{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	if suggestion == nil {
		return apierrors.NotFound("suggestion not found")
	}

	dismissed := true
	if _, err := s.Store.UpdateBookSuggestion(ctx, &store.UpdateBookSuggestion{
		ID:        suggestion.ID,
		Dismissed: &dismissed,
	}); err != nil {
		return internalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
