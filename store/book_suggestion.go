package store

import (
	"context"
)

// BookSuggestion is an AI-suggested book not yet in the library. It has no
// book UID of its own until the user adds it.
type BookSuggestion struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64

	Title           string
	Authors         []string
	Reason          string
	RelatedBookUIDs []string
	Dismissed       bool
}

type FindBookSuggestion struct {
	UID       *string
	CreatorID *int32
	Dismissed *bool
}

type UpdateBookSuggestion struct {
	ID        int32
	Dismissed *bool
}

type DeleteBookSuggestion struct {
	CreatorID int32
	Dismissed *bool // when set, delete only suggestions with this dismissed state
}

func (s *Store) CreateBookSuggestion(ctx context.Context, create *BookSuggestion) (*BookSuggestion, error) {
	return s.driver.CreateBookSuggestion(ctx, create)
}

func (s *Store) ListBookSuggestions(ctx context.Context, find *FindBookSuggestion) ([]*BookSuggestion, error) {
	return s.driver.ListBookSuggestions(ctx, find)
}

func (s *Store) GetBookSuggestion(ctx context.Context, find *FindBookSuggestion) (*BookSuggestion, error) {
	list, err := s.driver.ListBookSuggestions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateBookSuggestion(ctx context.Context, update *UpdateBookSuggestion) (*BookSuggestion, error) {
	return s.driver.UpdateBookSuggestion(ctx, update)
}

func (s *Store) DeleteBookSuggestions(ctx context.Context, delete *DeleteBookSuggestion) error {
	return s.driver.DeleteBookSuggestions(ctx, delete)
}
