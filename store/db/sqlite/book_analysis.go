package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/store"
)

func (d *DB) UpsertBookAnalysis(ctx context.Context, upsert *store.BookAnalysis) (*store.BookAnalysis, error) {
	topics, err := marshalStringList(upsert.Topics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal topics: %w", err)
	}
	themes, err := marshalStringList(upsert.Themes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal themes: %w", err)
	}
	tags, err := marshalStringList(upsert.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	args := []any{upsert.BookUID, upsert.CreatorID, topics, themes, tags, upsert.Summary, upsert.Model}
	stmt := `
		INSERT INTO book_analysis (book_uid, creator_id, topics, themes, tags, summary, model)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT (book_uid) DO UPDATE SET
			analyzed_ts = (strftime('%s', 'now')),
			topics = EXCLUDED.topics,
			themes = EXCLUDED.themes,
			tags = EXCLUDED.tags,
			summary = EXCLUDED.summary,
			model = EXCLUDED.model
		RETURNING id, analyzed_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&upsert.ID,
		&upsert.AnalyzedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert book analysis: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListBookAnalyses(ctx context.Context, find *store.FindBookAnalysis) ([]*store.BookAnalysis, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.BookUID; v != nil {
		where, args = append(where, "book_analysis.book_uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "book_analysis.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, book_uid, creator_id, analyzed_ts, topics, themes, tags, summary, model
		FROM book_analysis
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY book_analysis.id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query book analyses: %w", err)
	}
	defer rows.Close()

	list := make([]*store.BookAnalysis, 0)
	for rows.Next() {
		var analysis store.BookAnalysis
		var topics, themes, tags string
		if err := rows.Scan(
			&analysis.ID,
			&analysis.BookUID,
			&analysis.CreatorID,
			&analysis.AnalyzedTs,
			&topics,
			&themes,
			&tags,
			&analysis.Summary,
			&analysis.Model,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book analysis: %w", err)
		}

		if analysis.Topics, err = unmarshalStringList(topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}
		if analysis.Themes, err = unmarshalStringList(themes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal themes: %w", err)
		}
		if analysis.Tags, err = unmarshalStringList(tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		list = append(list, &analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book analyses: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteBookAnalysis(ctx context.Context, delete *store.DeleteBookAnalysis) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM book_analysis WHERE book_uid = `+placeholder(1), delete.BookUID); err != nil {
		return fmt.Errorf("failed to delete book analysis: %w", err)
	}
	return nil
}
