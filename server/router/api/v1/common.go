package v1

import (
	"github.com/labstack/echo/v4"

	apierrors "github.com/shelfgraph/shelfgraph/server/internal/errors"
	"github.com/shelfgraph/shelfgraph/store"
)

type analysisResponse struct {
	Topics     []string `json:"topics"`
	Themes     []string `json:"themes"`
	Tags       []string `json:"tags"`
	Summary    string   `json:"summary"`
	Model      string   `json:"model"`
	AnalyzedTs int64    `json:"analyzedTs"`
}

type bookResponse struct {
	UID       string            `json:"uid"`
	Title     string            `json:"title"`
	Authors   []string          `json:"authors"`
	Topics    []string          `json:"topics"`
	Themes    []string          `json:"themes"`
	Tags      []string          `json:"tags"`
	Year      *int32            `json:"year,omitempty"`
	Rating    *int32            `json:"rating,omitempty"`
	DateRead  *string           `json:"dateRead,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	CreatedTs int64             `json:"createdTs"`
	UpdatedTs int64             `json:"updatedTs"`
	Analysis  *analysisResponse `json:"analysis,omitempty"`
}

type suggestionResponse struct {
	UID             string   `json:"uid"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Reason          string   `json:"reason"`
	RelatedBookUIDs []string `json:"relatedBookUids"`
	CreatedTs       int64    `json:"createdTs"`
}

func convertBook(book *store.Book) *bookResponse {
	response := &bookResponse{
		UID:       book.UID,
		Title:     book.Title,
		Authors:   book.Authors,
		Topics:    book.Topics,
		Themes:    book.Themes,
		Tags:      book.Tags,
		Year:      book.Year,
		Rating:    book.Rating,
		DateRead:  book.DateRead,
		Notes:     book.Notes,
		CreatedTs: book.CreatedTs,
		UpdatedTs: book.UpdatedTs,
	}
	if book.Analysis != nil {
		response.Analysis = convertAnalysis(book.Analysis)
	}
	return response
}

func convertAnalysis(analysis *store.BookAnalysis) *analysisResponse {
	return &analysisResponse{
		Topics:     analysis.Topics,
		Themes:     analysis.Themes,
		Tags:       analysis.Tags,
		Summary:    analysis.Summary,
		Model:      analysis.Model,
		AnalyzedTs: analysis.AnalyzedTs,
	}
}

func convertSuggestion(suggestion *store.BookSuggestion) *suggestionResponse {
	return &suggestionResponse{
		UID:             suggestion.UID,
		Title:           suggestion.Title,
		Authors:         suggestion.Authors,
		Reason:          suggestion.Reason,
		RelatedBookUIDs: suggestion.RelatedBookUIDs,
		CreatedTs:       suggestion.CreatedTs,
	}
}

func convertBooks(books []*store.Book) []*bookResponse {
	responses := make([]*bookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, convertBook(book))
	}
	return responses
}

// errorResponse covers the statuses the error taxonomy has no code for,
// e.g. 409 and 502.
func errorResponse(status int, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, message)
}

// internalError hides the cause from the client; the error handler logs it.
func internalError(err error) error {
	return apierrors.Wrap(err, apierrors.ErrCodeInternal, "unexpected server error")
}
