package store

import (
	"context"
)

// BookAnalysis carries AI-inferred attributes for a single book.
// At most one analysis exists per book, keyed by book UID.
type BookAnalysis struct {
	ID         int32
	BookUID    string
	CreatorID  int32
	AnalyzedTs int64

	Topics  []string
	Themes  []string
	Tags    []string
	Summary string
	Model   string
}

type FindBookAnalysis struct {
	BookUID   *string
	CreatorID *int32
}

type DeleteBookAnalysis struct {
	BookUID string
}

func (s *Store) UpsertBookAnalysis(ctx context.Context, upsert *BookAnalysis) (*BookAnalysis, error) {
	return s.driver.UpsertBookAnalysis(ctx, upsert)
}

func (s *Store) ListBookAnalyses(ctx context.Context, find *FindBookAnalysis) ([]*BookAnalysis, error) {
	return s.driver.ListBookAnalyses(ctx, find)
}

func (s *Store) DeleteBookAnalysis(ctx context.Context, delete *DeleteBookAnalysis) error {
	return s.driver.DeleteBookAnalysis(ctx, delete)
}
