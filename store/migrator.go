package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/internal/version"
)

// The migration system handles database schema versioning and upgrades.
//
// Flow:
// 1. Fresh install: apply LATEST.sql (full schema, faster than replaying
//    incremental migrations) and record the current schema version.
// 2. Existing install (prod mode): apply incremental migrations newer than
//    the latest recorded version, in order.
//
// Migration files live at migration/{driver}/{minor}/{NN}__description.sql.
// A file's schema version is {minor}.{NN}; files are sorted and applied
// lexicographically within a minor version.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit separates the patch number from the description
	// in a migration file name, e.g. "01__create_table.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the full schema applied to fresh installations.
	LatestSchemaFileName = "LATEST.sql"

	modeProd = "prod"
)

// Migrate brings the database schema up to date for the current build.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	if !initialized {
		return s.applyLatestSchema(ctx)
	}

	if s.profile.Mode == modeProd {
		return s.applyIncrementalMigrations(ctx)
	}
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	schemaVersion := version.GetSchemaVersion(s.profile.Version)
	if err := s.driver.UpsertMigrationHistory(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}
	slog.Info("database initialized", slog.String("schema_version", schemaVersion))
	return nil
}

func (s *Store) applyIncrementalMigrations(ctx context.Context) error {
	currentVersion, err := s.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	filePaths, err := s.pendingMigrationFiles(currentVersion)
	if err != nil {
		return err
	}

	for _, filePath := range filePaths {
		buf, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %q", filePath)
		}
		if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %q", filePath)
		}
		fileVersion := migrationFileVersion(filePath)
		if err := s.driver.UpsertMigrationHistory(ctx, fileVersion); err != nil {
			return errors.Wrapf(err, "failed to record migration %q", fileVersion)
		}
		slog.Info("applied migration", slog.String("file", filePath), slog.String("schema_version", fileVersion))
	}
	return nil
}

func (s *Store) currentSchemaVersion(ctx context.Context) (string, error) {
	versions, err := s.driver.ListMigrationHistoryVersions(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to list migration history")
	}
	current := "0.0.0"
	for _, v := range versions {
		if version.IsVersionGreaterThan(v, current) {
			current = v
		}
	}
	return current, nil
}

// pendingMigrationFiles returns migration files with a schema version newer
// than currentVersion, in application order.
func (s *Store) pendingMigrationFiles(currentVersion string) ([]string, error) {
	root := fmt.Sprintf("migration/%s", s.profile.Driver)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read migration dir %q", root)
	}

	var filePaths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		minorDir := entry.Name()
		files, err := fs.ReadDir(migrationFS, root+"/"+minorDir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read migration dir %q", minorDir)
		}
		for _, file := range files {
			filePath := root + "/" + minorDir + "/" + file.Name()
			fileVersion := migrationFileVersion(filePath)
			if fileVersion == "" {
				continue
			}
			if version.IsVersionGreaterThan(fileVersion, currentVersion) {
				filePaths = append(filePaths, filePath)
			}
		}
	}

	sort.Slice(filePaths, func(i, j int) bool {
		vi, vj := migrationFileVersion(filePaths[i]), migrationFileVersion(filePaths[j])
		if vi != vj {
			return version.IsVersionGreaterThan(vj, vi)
		}
		return filePaths[i] < filePaths[j]
	})
	return filePaths, nil
}

// migrationFileVersion derives the schema version of a migration file from
// its path, e.g. migration/sqlite/0.3/02__add_index.sql -> 0.3.2.
func migrationFileVersion(filePath string) string {
	parts := strings.Split(filePath, "/")
	if len(parts) < 4 {
		return ""
	}
	minor := parts[len(parts)-2]
	fileName := parts[len(parts)-1]
	patchPart, _, found := strings.Cut(fileName, MigrateFileNameSplit)
	if !found {
		return ""
	}
	patch, err := strconv.Atoi(patchPart)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s.%d", minor, patch)
}
