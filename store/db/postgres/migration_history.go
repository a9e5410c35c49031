package postgres

import (
	"context"
	"fmt"
)

func (d *DB) UpsertMigrationHistory(ctx context.Context, version string) error {
	stmt := `
		INSERT INTO migration_history (version)
		VALUES (` + placeholder(1) + `)
		ON CONFLICT (version) DO UPDATE SET version = EXCLUDED.version`
	if _, err := d.db.ExecContext(ctx, stmt, version); err != nil {
		return fmt.Errorf("failed to upsert migration history: %w", err)
	}
	return nil
}

func (d *DB) ListMigrationHistoryVersions(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT version FROM migration_history ORDER BY created_ts DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer rows.Close()

	versions := []string{}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration history: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration history: %w", err)
	}
	return versions, nil
}
