package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/plugin/graph"
	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/store"
)

// parseEdgeToggles parses the edges query parameter, a comma-separated list
// of edge kinds (author, topic, theme, tag, ai). An absent parameter enables
// everything.
func parseEdgeToggles(raw string) (graph.EdgeToggles, error) {
	if raw == "" {
		return graph.EdgeToggles{Author: true, Topic: true, Theme: true, Tag: true, AIConnection: true}, nil
	}
	toggles := graph.EdgeToggles{}
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "author":
			toggles.Author = true
		case "topic":
			toggles.Topic = true
		case "theme":
			toggles.Theme = true
		case "tag":
			toggles.Tag = true
		case "ai":
			toggles.AIConnection = true
		case "":
		default:
			return toggles, errors.Errorf("unknown edge kind %q", strings.TrimSpace(part))
		}
	}
	return toggles, nil
}

// parseThreshold parses the minimum shared-book count for attribute nodes.
// Defaults to 1; values below 1 are rejected.
func parseThreshold(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil || threshold < 1 {
		return 0, errors.Errorf("threshold must be a positive integer")
	}
	return threshold, nil
}

// GetGraph assembles the user's library into graph data for rendering.
func (s *APIV1Service) GetGraph(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	toggles, err := parseEdgeToggles(c.QueryParam("edges"))
	if err != nil {
		return apierrors.InvalidArgument(err.Error())
	}
	threshold, err := parseThreshold(c.QueryParam("threshold"))
	if err != nil {
		return apierrors.InvalidArgument(err.Error())
	}
	showSuggestions := c.QueryParam("suggestions") == "true"

	books, err := s.Store.ListBooksWithAnalyses(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}
	connections, err := s.Store.ListBookConnections(ctx, &store.FindBookConnection{CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	var suggestions []*store.BookSuggestion
	if showSuggestions {
		suggestions, err = s.Store.ListBookSuggestions(ctx, &store.FindBookSuggestion{CreatorID: &user.ID})
		if err != nil {
			return internalError(err)
		}
	}

	data := graph.BuildGraph(books, toggles, threshold, connections, suggestions, showSuggestions)
	return c.JSON(http.StatusOK, data)
}

// GetRelatedBooks lists books sharing an author, topic, theme or tag with
// the given book.
func (s *APIV1Service) GetRelatedBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	books, err := s.Store.ListBooksWithAnalyses(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}
	var target *store.Book
	for _, book := range books {
		if book.UID == uid {
			target = book
			break
		}
	}
	if target == nil {
		return apierrors.NotFound("book not found")
	}

	return c.JSON(http.StatusOK, convertBooks(graph.FindRelatedBooks(target, books)))
}

// GetConnectedBooks lists the books attached to an attribute node, e.g.
// ?node=topic:Space Travel.
func (s *APIV1Service) GetConnectedBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	nodeID := c.QueryParam("node")
	if nodeID == "" {
		return apierrors.InvalidArgument("node is required")
	}

	books, err := s.Store.ListBooksWithAnalyses(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, convertBooks(graph.GetConnectedBooks(nodeID, books)))
}
