package types

import (
	"context"
	"errors"
)

// Scope selects which storage partition an operation targets. Scopes are
// stateless and chosen per call.
type Scope string

// Storage partitions.
const (
	ScopePrivate Scope = "private"
	ScopePublic  Scope = "public"
)

// Scopes lists all scopes for enumeration.
var Scopes = []Scope{ScopePrivate, ScopePublic}

// validScopes is the set of recognized scopes.
var validScopes = map[Scope]bool{
	ScopePrivate: true,
	ScopePublic:  true,
}

// Valid reports whether s is a recognized scope.
func (s Scope) Valid() bool {
	return validScopes[s]
}

// Query narrows a record query. The zero Query matches every record of the
// requested type.
type Query struct {
	CreatorID string // Matches records created by this identity when non-empty.
}

// Service is the record storage contract implemented by every backend.
// Absence is a (zero, nil) result, not an error: a Service reports an error
// only when the operation itself failed. Services never retry, never cache,
// and add no write coordination; concurrent saves of the same record are
// last-write-wins.
type Service interface {
	// CurrentUserID resolves the caller's identity. Returns "" with a nil
	// error when the service has no identity configured.
	CurrentUserID(ctx context.Context) (string, error)

	// Query returns every record of recordType in scope matching q, ordered
	// by creation time then identifier. Zero matches yield an empty,
	// non-nil slice.
	Query(ctx context.Context, scope Scope, recordType string, q Query) ([]*Record, error)

	// Fetch returns the record with the given identifier, or nil when no
	// record exists.
	Fetch(ctx context.Context, scope Scope, id string) (*Record, error)

	// Save persists rec and returns the canonical stored record. A record
	// without an identifier is inserted under a service-assigned UUID v7;
	// a record carrying one is upserted, preserving the stored creator and
	// creation time. The input record is never mutated or retained.
	Save(ctx context.Context, scope Scope, rec *Record) (*Record, error)

	// Delete removes the record with the given identifier and returns that
	// identifier, or "" when no record existed.
	Delete(ctx context.Context, scope Scope, id string) (string, error)
}

// Service operation errors.
var (
	ErrStoreClosed  = errors.New("store is closed")
	ErrUnknownScope = errors.New("unknown scope")
	ErrNilRecord    = errors.New("record is nil")
	ErrEmptyType    = errors.New("record type is empty")
	ErrEmptyID      = errors.New("identifier is empty")
)
