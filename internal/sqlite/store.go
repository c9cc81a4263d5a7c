// Package sqlite implements the SQLite record Service backing the
// "sqlite" backend. Both scopes share one database file under the
// configured data directory.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// dbFileName is the SQLite database file created under DataDir.
const dbFileName = "pantry.db"

// Store is a SQLite-backed types.Service.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	userID string
	closed bool
}

var _ types.Service = (*Store)(nil)

// Open creates the data directory and database file if needed, applies the
// schema, and returns a Store resolving cfg.UserID as the caller identity.
// Data written by a previous Open of the same directory is visible.
func Open(cfg types.Config) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, types.ErrDataDirEmpty
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(cfg.DataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &Store{db: db, userID: cfg.UserID}, nil
}

// SetUserID changes the identity the store resolves. Intended for tests
// that exercise multi-user or missing-identity behavior.
func (s *Store) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Close closes the database. Idempotent; operations after Close return
// ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	return nil
}

// conn returns the database handle after validating scope. The caller
// must hold mu.
func (s *Store) conn(scope types.Scope) (*sql.DB, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	if !scope.Valid() {
		return nil, types.ErrUnknownScope
	}
	return s.db, nil
}

// newID returns a time-ordered UUID v7 string.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
