package store

import (
	"context"
)

// Book is a user-owned catalog entry. Authors, topics, themes and tags are
// sets of free-form strings; values are compared case-sensitively and as
// exact matches (no normalization). This is a documented limitation.
type Book struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Title    string
	Authors  []string
	Topics   []string
	Themes   []string
	Tags     []string
	Year     *int32
	Rating   *int32 // 1-5 stars
	DateRead *string
	Notes    string

	// Analysis is the AI analysis attached by ListBooksWithAnalyses.
	// It is not a column of the book table.
	Analysis *BookAnalysis
}

type FindBook struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	Limit  *int
	Offset *int
}

type UpdateBook struct {
	ID        int32
	UpdatedTs *int64

	Title    *string
	Authors  []string
	Topics   []string
	Themes   []string
	Tags     []string
	Year     *int32
	Rating   *int32
	DateRead *string
	Notes    *string
}

type DeleteBook struct {
	ID int32
}

func (s *Store) CreateBook(ctx context.Context, create *Book) (*Book, error) {
	return s.driver.CreateBook(ctx, create)
}

func (s *Store) ListBooks(ctx context.Context, find *FindBook) ([]*Book, error) {
	return s.driver.ListBooks(ctx, find)
}

func (s *Store) GetBook(ctx context.Context, find *FindBook) (*Book, error) {
	list, err := s.driver.ListBooks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateBook(ctx context.Context, update *UpdateBook) (*Book, error) {
	return s.driver.UpdateBook(ctx, update)
}

func (s *Store) DeleteBook(ctx context.Context, delete *DeleteBook) error {
	return s.driver.DeleteBook(ctx, delete)
}

// ListBooksWithAnalyses returns the user's books with their AI analyses
// attached. The graph engine consumes this assembled collection; it never
// queries the store itself.
func (s *Store) ListBooksWithAnalyses(ctx context.Context, creatorID int32) ([]*Book, error) {
	books, err := s.driver.ListBooks(ctx, &FindBook{CreatorID: &creatorID})
	if err != nil {
		return nil, err
	}
	analyses, err := s.driver.ListBookAnalyses(ctx, &FindBookAnalysis{CreatorID: &creatorID})
	if err != nil {
		return nil, err
	}

	analysisByBookUID := make(map[string]*BookAnalysis, len(analyses))
	for _, analysis := range analyses {
		analysisByBookUID[analysis.BookUID] = analysis
	}
	for _, book := range books {
		book.Analysis = analysisByBookUID[book.UID]
	}
	return books, nil
}
