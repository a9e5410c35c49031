package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/shelfgraph/shelfgraph/plugin/bulkimport"
	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/store"
)

type upsertBookRequest struct {
	Title    *string  `json:"title"`
	Authors  []string `json:"authors"`
	Topics   []string `json:"topics"`
	Themes   []string `json:"themes"`
	Tags     []string `json:"tags"`
	Year     *int32   `json:"year"`
	Rating   *int32   `json:"rating"`
	DateRead *string  `json:"dateRead"`
	Notes    *string  `json:"notes"`
}

func (s *APIV1Service) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	books, err := s.Store.ListBooksWithAnalyses(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}

	if expression := c.QueryParam("filter"); expression != "" {
		program, err := compileBookFilter(expression)
		if err != nil {
			return apierrors.InvalidArgument(err.Error())
		}
		books, err = filterBooks(program, books)
		if err != nil {
			return apierrors.InvalidArgument(err.Error())
		}
	}

	return c.JSON(http.StatusOK, convertBooks(books))
}

func (s *APIV1Service) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	request := &upsertBookRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}
	if request.Title == nil || *request.Title == "" {
		return apierrors.InvalidArgument("title is required")
	}
	if request.Rating != nil && (*request.Rating < 1 || *request.Rating > 5) {
		return apierrors.InvalidArgument("rating must be between 1 and 5")
	}

	book := &store.Book{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Title:     *request.Title,
		Authors:   request.Authors,
		Topics:    request.Topics,
		Themes:    request.Themes,
		Tags:      request.Tags,
		Year:      request.Year,
		Rating:    request.Rating,
		DateRead:  request.DateRead,
	}
	if request.Notes != nil {
		book.Notes = *request.Notes
	}

	created, err := s.Store.CreateBook(ctx, book)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, convertBook(created))
}

func (s *APIV1Service) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	if book == nil {
		return apierrors.NotFound("book not found")
	}

	analysis, err := s.Store.ListBookAnalyses(ctx, &store.FindBookAnalysis{BookUID: &uid})
	if err != nil {
		return internalError(err)
	}
	if len(analysis) > 0 {
		book.Analysis = analysis[0]
	}
	return c.JSON(http.StatusOK, convertBook(book))
}

func (s *APIV1Service) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	if book == nil {
		return apierrors.NotFound("book not found")
	}

	request := &upsertBookRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}
	if request.Rating != nil && (*request.Rating < 1 || *request.Rating > 5) {
		return apierrors.InvalidArgument("rating must be between 1 and 5")
	}

	now := time.Now().Unix()
	update := &store.UpdateBook{
		ID:        book.ID,
		UpdatedTs: &now,
		Title:     request.Title,
		Authors:   request.Authors,
		Topics:    request.Topics,
		Themes:    request.Themes,
		Tags:      request.Tags,
		Year:      request.Year,
		Rating:    request.Rating,
		DateRead:  request.DateRead,
		Notes:     request.Notes,
	}

	updated, err := s.Store.UpdateBook(ctx, update)
	if err != nil {
		return internalError(err)
	}
	return c.JSON(http.StatusOK, convertBook(updated))
}

func (s *APIV1Service) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	book, err := s.Store.GetBook(ctx, &store.FindBook{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return internalError(err)
	}
	if book == nil {
		return apierrors.NotFound("book not found")
	}

	if err := s.deleteBookRecords(ctx, book); err != nil {
		return internalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// deleteBookRecords removes a book and cascades the derived records by
// hand; the schema has no FKs on uid.
func (s *APIV1Service) deleteBookRecords(ctx context.Context, book *store.Book) error {
	if err := s.Store.DeleteBook(ctx, &store.DeleteBook{ID: book.ID}); err != nil {
		return err
	}
	if err := s.Store.DeleteBookAnalysis(ctx, &store.DeleteBookAnalysis{BookUID: book.UID}); err != nil {
		return err
	}
	return s.Store.DeleteBookConnections(ctx, &store.DeleteBookConnection{CreatorID: book.CreatorID, BookUID: &book.UID})
}

type bulkAddRequest struct {
	Text string `json:"text"`
}

// BulkAddBooks parses a free-form text listing into catalog entries, one
// book per non-blank line.
func (s *APIV1Service) BulkAddBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	request := &bulkAddRequest{}
	if err := c.Bind(request); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}
	entries := bulkimport.Parse(request.Text)
	if len(entries) == 0 {
		return apierrors.InvalidArgument("no books found in input")
	}

	created := make([]*store.Book, 0, len(entries))
	for _, entry := range entries {
		book, err := s.Store.CreateBook(ctx, &store.Book{
			UID:       shortuuid.New(),
			CreatorID: user.ID,
			Title:     entry.Title,
			Authors:   entry.Authors,
			Topics:    entry.Topics,
			Themes:    entry.Themes,
			Tags:      entry.Tags,
		})
		if err != nil {
			return internalError(err)
		}
		created = append(created, book)
	}
	return c.JSON(http.StatusOK, convertBooks(created))
}

// ExportBooks returns the flat book list as a JSON attachment.
func (s *APIV1Service) ExportBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	books, err := s.Store.ListBooksWithAnalyses(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="shelfgraph-books.json"`)
	return c.JSON(http.StatusOK, convertBooks(books))
}

// ImportBooks accepts a previously exported JSON book list and creates the
// entries under fresh uids.
func (s *APIV1Service) ImportBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	var imported []*bookResponse
	if err := c.Bind(&imported); err != nil {
		return apierrors.InvalidArgument("malformed request body")
	}

	created := make([]*store.Book, 0, len(imported))
	for _, entry := range imported {
		if entry.Title == "" {
			continue
		}
		book, err := s.Store.CreateBook(ctx, &store.Book{
			UID:       shortuuid.New(),
			CreatorID: user.ID,
			Title:     entry.Title,
			Authors:   entry.Authors,
			Topics:    entry.Topics,
			Themes:    entry.Themes,
			Tags:      entry.Tags,
			Year:      entry.Year,
			Rating:    entry.Rating,
			DateRead:  entry.DateRead,
			Notes:     entry.Notes,
		})
		if err != nil {
			return internalError(err)
		}
		created = append(created, book)
	}
	return c.JSON(http.StatusOK, convertBooks(created))
}

// LookupBooks searches Open Library for metadata matching the query.
func (s *APIV1Service) LookupBooks(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("q")
	if query == "" {
		return apierrors.InvalidArgument("q is required")
	}

	results, err := s.OpenLibrary.Search(ctx, query)
	if err != nil {
		return errorResponse(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}
