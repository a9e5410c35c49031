package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/plugin/ai"
	"github.com/shelfgraph/shelfgraph/store"
)

// Store is the catalog surface the suggester writes through.
// *store.Store satisfies it.
type Store interface {
	ListBooks(ctx context.Context, find *store.FindBook) ([]*store.Book, error)
	DeleteBookSuggestions(ctx context.Context, delete *store.DeleteBookSuggestion) error
	CreateBookSuggestion(ctx context.Context, create *store.BookSuggestion) (*store.BookSuggestion, error)
}

// Suggester asks the LLM for books the reader might enjoy that are not in
// the library yet.
type Suggester struct {
	llm   ai.LLM
	store Store
}

func NewSuggester(llm ai.LLM, st Store) *Suggester {
	return &Suggester{llm: llm, store: st}
}

const promptTemplate = `Based on this book library, suggest 5-10 books the reader would enjoy that are NOT already in their library.

Library:
%s

Return ONLY valid JSON with this exact structure:
{
  "suggestions": [
    {
      "title": "Book Title",
      "authors": ["Author Name"],
      "reason": "Why this reader would enjoy this book based on their library",
      "related_book_uids": ["uid-of-library-book-that-inspired-this-suggestion"]
    }
  ]
}

Each suggestion should relate to specific books in the library. Include 1-3 related_book_uids per suggestion.`

type suggestionResult struct {
	Suggestions []struct {
		Title           string   `json:"title"`
		Authors         []string `json:"authors"`
		Reason          string   `json:"reason"`
		RelatedBookUIDs []string `json:"related_book_uids"`
	} `json:"suggestions"`
}

// SuggestBooks replaces the user's non-dismissed suggestions with a fresh
// set from the model. Dismissed suggestions are kept so they are not
// resurfaced.
func (s *Suggester) SuggestBooks(ctx context.Context, creatorID int32) ([]*store.BookSuggestion, error) {
	books, err := s.store.ListBooks(ctx, &store.FindBook{CreatorID: &creatorID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	if len(books) == 0 {
		return nil, errors.New("no books in library")
	}

	validUIDs := make(map[string]bool, len(books))
	lines := make([]string, 0, len(books))
	for _, book := range books {
		validUIDs[book.UID] = true
		line := fmt.Sprintf("- UID: %s | %q by %s", book.UID, book.Title, strings.Join(book.Authors, ", "))
		if book.Year != nil {
			line += fmt.Sprintf(" (%d)", *book.Year)
		}
		lines = append(lines, line)
	}

	reply, err := s.llm.Chat(ctx, []ai.Message{ai.UserMessage(fmt.Sprintf(promptTemplate, strings.Join(lines, "\n")))})
	if err != nil {
		return nil, errors.Wrap(err, "chat failed")
	}
	raw, err := ai.ExtractJSONObject(reply)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse AI response as JSON")
	}
	result := &suggestionResult{}
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, errors.Wrap(err, "failed to parse AI response as JSON")
	}

	dismissed := false
	if err := s.store.DeleteBookSuggestions(ctx, &store.DeleteBookSuggestion{CreatorID: creatorID, Dismissed: &dismissed}); err != nil {
		return nil, errors.Wrap(err, "failed to clear previous suggestions")
	}

	created := make([]*store.BookSuggestion, 0, len(result.Suggestions))
	for _, suggestion := range result.Suggestions {
		if suggestion.Title == "" {
			continue
		}
		relatedUIDs := make([]string, 0, len(suggestion.RelatedBookUIDs))
		for _, uid := range suggestion.RelatedBookUIDs {
			if validUIDs[uid] {
				relatedUIDs = append(relatedUIDs, uid)
			}
		}
		row, err := s.store.CreateBookSuggestion(ctx, &store.BookSuggestion{
			UID:             shortuuid.New(),
			CreatorID:       creatorID,
			Title:           suggestion.Title,
			Authors:         suggestion.Authors,
			Reason:          suggestion.Reason,
			RelatedBookUIDs: relatedUIDs,
			Dismissed:       false,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create suggestion")
		}
		created = append(created, row)
	}
	return created, nil
}
