package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

func (d *DB) CreateBookSuggestion(ctx context.Context, create *store.BookSuggestion) (*store.BookSuggestion, error) {
	authors, err := marshalStringList(create.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authors: %w", err)
	}
	relatedBookUIDs, err := marshalStringList(create.RelatedBookUIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal related book uids: %w", err)
	}

	args := []any{create.UID, create.CreatorID, create.Title, authors, create.Reason, relatedBookUIDs, create.Dismissed}
	stmt := `
		INSERT INTO book_suggestion (uid, creator_id, title, authors, reason, related_book_uids, dismissed)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create book suggestion: %w", err)
	}
	return create, nil
}

func (d *DB) ListBookSuggestions(ctx context.Context, find *store.FindBookSuggestion) ([]*store.BookSuggestion, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UID; v != nil {
		where, args = append(where, "book_suggestion.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "book_suggestion.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Dismissed; v != nil {
		where, args = append(where, "book_suggestion.dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, title, authors, reason, related_book_uids, dismissed
		FROM book_suggestion
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY book_suggestion.id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query book suggestions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.BookSuggestion, 0)
	for rows.Next() {
		var suggestion store.BookSuggestion
		var authors, relatedBookUIDs string
		if err := rows.Scan(
			&suggestion.ID,
			&suggestion.UID,
			&suggestion.CreatorID,
			&suggestion.CreatedTs,
			&suggestion.Title,
			&authors,
			&suggestion.Reason,
			&relatedBookUIDs,
			&suggestion.Dismissed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book suggestion: %w", err)
		}

		if suggestion.Authors, err = unmarshalStringList(authors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
		}
		if suggestion.RelatedBookUIDs, err = unmarshalStringList(relatedBookUIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal related book uids: %w", err)
		}
		list = append(list, &suggestion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book suggestions: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateBookSuggestion(ctx context.Context, update *store.UpdateBookSuggestion) (*store.BookSuggestion, error) {
	set, args := []string{}, []any{}
	if v := update.Dismissed; v != nil {
		set, args = append(set, "dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		set = append(set, "id = id")
	}

	args = append(args, update.ID)
	stmt := `UPDATE book_suggestion SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING uid`
	var uid string
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&uid); err != nil {
		return nil, fmt.Errorf("failed to update book suggestion: %w", err)
	}

	suggestions, err := d.ListBookSuggestions(ctx, &store.FindBookSuggestion{UID: &uid})
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("book suggestion not found")
	}
	return suggestions[0], nil
}

func (d *DB) DeleteBookSuggestions(ctx context.Context, delete *store.DeleteBookSuggestion) error {
	where, args := []string{"creator_id = " + placeholder(1)}, []any{delete.CreatorID}
	if v := delete.Dismissed; v != nil {
		where, args = append(where, "dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}

	stmt := `DELETE FROM book_suggestion WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete book suggestions: %w", err)
	}
	return nil
}
