// Package sqlite provides the public constructor for the SQLite record
// Service while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/pantry/internal/sqlite"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Store is a SQLite-backed types.Service.
type Store = sqlite.Store

// Open creates the data directory and database file if needed and returns
// a ready Store.
//
// Example:
//
//	svc, err := sqlite.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    UserID:  "ana",
//	    DataDir: ".pantry",
//	})
//	defer svc.Close()
func Open(cfg types.Config) (*Store, error) {
	return sqlite.Open(cfg)
}
