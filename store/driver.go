package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Migration history related methods.
	UpsertMigrationHistory(ctx context.Context, version string) error
	ListMigrationHistoryVersions(ctx context.Context) ([]string, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Book model related methods.
	CreateBook(ctx context.Context, create *Book) (*Book, error)
	ListBooks(ctx context.Context, find *FindBook) ([]*Book, error)
	UpdateBook(ctx context.Context, update *UpdateBook) (*Book, error)
	DeleteBook(ctx context.Context, delete *DeleteBook) error

	// BookAnalysis model related methods.
	UpsertBookAnalysis(ctx context.Context, upsert *BookAnalysis) (*BookAnalysis, error)
	ListBookAnalyses(ctx context.Context, find *FindBookAnalysis) ([]*BookAnalysis, error)
	DeleteBookAnalysis(ctx context.Context, delete *DeleteBookAnalysis) error

	// BookConnection model related methods.
	UpsertBookConnection(ctx context.Context, upsert *BookConnection) (*BookConnection, error)
	ListBookConnections(ctx context.Context, find *FindBookConnection) ([]*BookConnection, error)
	DeleteBookConnections(ctx context.Context, delete *DeleteBookConnection) error

	// BookSuggestion model related methods.
	CreateBookSuggestion(ctx context.Context, create *BookSuggestion) (*BookSuggestion, error)
	ListBookSuggestions(ctx context.Context, find *FindBookSuggestion) ([]*BookSuggestion, error)
	UpdateBookSuggestion(ctx context.Context, update *UpdateBookSuggestion) (*BookSuggestion, error)
	DeleteBookSuggestions(ctx context.Context, delete *DeleteBookSuggestion) error
}
