package store

import (
	"context"
)

// BookConnectionType enumerates the AI-inferred connection types.
type BookConnectionType string

const (
	ConnectionTypeThematic  BookConnectionType = "thematic"
	ConnectionTypeStylistic BookConnectionType = "stylistic"
	ConnectionTypeTopical   BookConnectionType = "topical"
	ConnectionTypeInfluence BookConnectionType = "influence"
	ConnectionTypeAuthor    BookConnectionType = "author"
)

// IsValidConnectionType returns true for a known connection type.
func IsValidConnectionType(t BookConnectionType) bool {
	switch t {
	case ConnectionTypeThematic, ConnectionTypeStylistic, ConnectionTypeTopical, ConnectionTypeInfluence, ConnectionTypeAuthor:
		return true
	}
	return false
}

// BookConnection is an AI-inferred undirected edge between two distinct books
// of the same user. The pair is stored in canonical order (lexicographically
// smaller UID first) so at most one row exists per (pair, type). The producer
// enforces this ordering, not the graph engine.
type BookConnection struct {
	ID        int32
	CreatorID int32
	CreatedTs int64

	BookAUID    string
	BookBUID    string
	Type        BookConnectionType
	Strength    float64 // in [0,1]
	Explanation string
}

type FindBookConnection struct {
	CreatorID *int32
	BookUID   *string // matches either endpoint
}

type DeleteBookConnection struct {
	CreatorID int32
	BookUID   *string // when set, delete connections touching this book only
}

// CanonicalPair returns the two UIDs in canonical storage order.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (s *Store) UpsertBookConnection(ctx context.Context, upsert *BookConnection) (*BookConnection, error) {
	return s.driver.UpsertBookConnection(ctx, upsert)
}

func (s *Store) ListBookConnections(ctx context.Context, find *FindBookConnection) ([]*BookConnection, error) {
	return s.driver.ListBookConnections(ctx, find)
}

func (s *Store) DeleteBookConnections(ctx context.Context, delete *DeleteBookConnection) error {
	return s.driver.DeleteBookConnections(ctx, delete)
}
