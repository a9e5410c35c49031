package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

func (d *DB) UpsertBookConnection(ctx context.Context, upsert *store.BookConnection) (*store.BookConnection, error) {
	args := []any{upsert.CreatorID, upsert.BookAUID, upsert.BookBUID, upsert.Type, upsert.Strength, upsert.Explanation}
	stmt := `
		INSERT INTO book_connection (creator_id, book_a_uid, book_b_uid, type, strength, explanation)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT (book_a_uid, book_b_uid, type) DO UPDATE SET
			strength = EXCLUDED.strength,
			explanation = EXCLUDED.explanation
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&upsert.ID,
		&upsert.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert book connection: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListBookConnections(ctx context.Context, find *store.FindBookConnection) ([]*store.BookConnection, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "book_connection.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.BookUID; v != nil {
		where = append(where, "(book_connection.book_a_uid = "+placeholder(len(args)+1)+" OR book_connection.book_b_uid = "+placeholder(len(args)+2)+")")
		args = append(args, *v, *v)
	}

	query := `
		SELECT id, creator_id, created_ts, book_a_uid, book_b_uid, type, strength, explanation
		FROM book_connection
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY book_connection.id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query book connections: %w", err)
	}
	defer rows.Close()

	list := make([]*store.BookConnection, 0)
	for rows.Next() {
		var connection store.BookConnection
		if err := rows.Scan(
			&connection.ID,
			&connection.CreatorID,
			&connection.CreatedTs,
			&connection.BookAUID,
			&connection.BookBUID,
			&connection.Type,
			&connection.Strength,
			&connection.Explanation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book connection: %w", err)
		}
		list = append(list, &connection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book connections: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteBookConnections(ctx context.Context, delete *store.DeleteBookConnection) error {
	where, args := []string{"creator_id = " + placeholder(1)}, []any{delete.CreatorID}
	if v := delete.BookUID; v != nil {
		where = append(where, "(book_a_uid = "+placeholder(len(args)+1)+" OR book_b_uid = "+placeholder(len(args)+2)+")")
		args = append(args, *v, *v)
	}

	stmt := `DELETE FROM book_connection WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete book connections: %w", err)
	}
	return nil
}
