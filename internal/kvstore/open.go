package kvstore

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Target describes which backend to open.
type Target struct {
	// Driver is one of DriverSQLite, DriverPostgres or DriverMemory.
	Driver string

	// DBDir is the SQLite data directory.
	DBDir string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string
}

// Open opens the backend described by t and namespaces it with DefaultPrefix.
func Open(ctx context.Context, t Target) (Store, error) {
	var (
		s   Store
		err error
	)

	switch t.Driver {
	case DriverSQLite, "":
		s, err = OpenSQLite(t.DBDir, DefaultOptions())
	case DriverPostgres:
		s, err = OpenPostgres(ctx, t.DatabaseURL)
	case DriverMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, t.Driver)
	}
	if err != nil {
		return nil, err
	}

	return WithPrefix(s, DefaultPrefix), nil
}
