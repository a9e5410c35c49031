package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

func (d *DB) CreateBook(ctx context.Context, create *store.Book) (*store.Book, error) {
	authors, err := marshalStringList(create.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authors: %w", err)
	}
	topics, err := marshalStringList(create.Topics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal topics: %w", err)
	}
	themes, err := marshalStringList(create.Themes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal themes: %w", err)
	}
	tags, err := marshalStringList(create.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	fields := []string{"uid", "creator_id", "title", "authors", "topics", "themes", "tags", "year", "rating", "date_read", "notes"}
	args := []any{create.UID, create.CreatorID, create.Title, authors, topics, themes, tags, create.Year, create.Rating, create.DateRead, create.Notes}

	stmt := `INSERT INTO book (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return create, nil
}

func (d *DB) ListBooks(ctx context.Context, find *store.FindBook) ([]*store.Book, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "book.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "book.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "book.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, updated_ts,
			title, authors, topics, themes, tags, year, rating, date_read, notes
		FROM book
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY book.created_ts ASC, book.id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Book, 0)
	for rows.Next() {
		var book store.Book
		var authors, topics, themes, tags string
		var year, rating sql.NullInt32
		var dateRead sql.NullString
		if err := rows.Scan(
			&book.ID,
			&book.UID,
			&book.CreatorID,
			&book.CreatedTs,
			&book.UpdatedTs,
			&book.Title,
			&authors,
			&topics,
			&themes,
			&tags,
			&year,
			&rating,
			&dateRead,
			&book.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}

		if book.Authors, err = unmarshalStringList(authors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
		}
		if book.Topics, err = unmarshalStringList(topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}
		if book.Themes, err = unmarshalStringList(themes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal themes: %w", err)
		}
		if book.Tags, err = unmarshalStringList(tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		if year.Valid {
			book.Year = &year.Int32
		}
		if rating.Valid {
			book.Rating = &rating.Int32
		}
		if dateRead.Valid {
			book.DateRead = &dateRead.String
		}
		list = append(list, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateBook(ctx context.Context, update *store.UpdateBook) (*store.Book, error) {
	set, args := []string{}, []any{}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Authors; v != nil {
		authors, err := marshalStringList(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal authors: %w", err)
		}
		set, args = append(set, "authors = "+placeholder(len(args)+1)), append(args, authors)
	}
	if v := update.Topics; v != nil {
		topics, err := marshalStringList(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal topics: %w", err)
		}
		set, args = append(set, "topics = "+placeholder(len(args)+1)), append(args, topics)
	}
	if v := update.Themes; v != nil {
		themes, err := marshalStringList(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal themes: %w", err)
		}
		set, args = append(set, "themes = "+placeholder(len(args)+1)), append(args, themes)
	}
	if v := update.Tags; v != nil {
		tags, err := marshalStringList(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		set, args = append(set, "tags = "+placeholder(len(args)+1)), append(args, tags)
	}
	if v := update.Year; v != nil {
		set, args = append(set, "year = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Rating; v != nil {
		set, args = append(set, "rating = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DateRead; v != nil {
		set, args = append(set, "date_read = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		set = append(set, "id = id")
	}

	args = append(args, update.ID)
	stmt := `UPDATE book SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING id`
	var id int32
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	books, err := d.ListBooks(ctx, &store.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("book not found")
	}
	return books[0], nil
}

func (d *DB) DeleteBook(ctx context.Context, delete *store.DeleteBook) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM book WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("book not found")
	}
	return nil
}
