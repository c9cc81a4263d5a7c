// Package memstore provides an in-memory record Service, used by the
// "memory" backend and by consumer tests that need storage without disk
// or network.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Store is an in-memory types.Service. Stored records are isolated from
// callers: every save stores a clone and every read returns one.
type Store struct {
	mu     sync.RWMutex
	userID string
	closed bool
	scopes map[types.Scope]map[string]*types.Record
}

var _ types.Service = (*Store)(nil)

// New returns an empty store resolving the given identity.
func New(userID string) *Store {
	scopes := make(map[types.Scope]map[string]*types.Record, len(types.Scopes))
	for _, scope := range types.Scopes {
		scopes[scope] = make(map[string]*types.Record)
	}
	return &Store{userID: userID, scopes: scopes}
}

// SetUserID changes the identity the store resolves. Intended for tests
// that exercise multi-user or missing-identity behavior.
func (s *Store) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Close marks the store closed. Idempotent; operations after Close return
// ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CurrentUserID implements types.Service.
func (s *Store) CurrentUserID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", types.ErrStoreClosed
	}
	return s.userID, nil
}

// Query implements types.Service.
func (s *Store) Query(ctx context.Context, scope types.Scope, recordType string, q types.Query) ([]*types.Record, error) {
	if recordType == "" {
		return nil, types.ErrEmptyType
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.records(scope)
	if err != nil {
		return nil, err
	}

	out := []*types.Record{}
	for _, rec := range m {
		if rec.Type() != recordType {
			continue
		}
		if q.CreatorID != "" && rec.CreatorID() != q.CreatorID {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

// Fetch implements types.Service.
func (s *Store) Fetch(ctx context.Context, scope types.Scope, id string) (*types.Record, error) {
	if id == "" {
		return nil, types.ErrEmptyID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.records(scope)
	if err != nil {
		return nil, err
	}
	rec, ok := m[id]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Save implements types.Service. A record without an identifier is
// inserted under a new UUID v7; a record carrying one is upserted,
// preserving the stored creator and creation time.
func (s *Store) Save(ctx context.Context, scope types.Scope, rec *types.Record) (*types.Record, error) {
	if rec == nil {
		return nil, types.ErrNilRecord
	}
	if rec.Type() == "" {
		return nil, types.ErrEmptyType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.records(scope)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := rec.ID()
	creator := s.userID
	createdAt := now
	if id == "" {
		id = newID()
	} else if existing, ok := m[id]; ok {
		creator = existing.CreatorID()
		createdAt = existing.CreatedAt()
	}

	stored := types.Restore(id, rec.Type(), creator, createdAt, now, rec.Fields())
	m[id] = stored
	return stored.Clone(), nil
}

// Delete implements types.Service.
func (s *Store) Delete(ctx context.Context, scope types.Scope, id string) (string, error) {
	if id == "" {
		return "", types.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.records(scope)
	if err != nil {
		return "", err
	}
	if _, ok := m[id]; !ok {
		return "", nil
	}
	delete(m, id)
	return id, nil
}

// records returns the record map for scope. The caller must hold mu.
func (s *Store) records(scope types.Scope) (map[string]*types.Record, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	m, ok := s.scopes[scope]
	if !ok {
		return nil, types.ErrUnknownScope
	}
	return m, nil
}

// newID returns a time-ordered UUID v7 string.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
