package db

import (
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/internal/profile"
	"github.com/shelfgraph/shelfgraph/store"
	"github.com/shelfgraph/shelfgraph/store/db/postgres"
	"github.com/shelfgraph/shelfgraph/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile.
// SQLite is the default for personal installs; PostgreSQL is for deployments
// that want a shared database server.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
