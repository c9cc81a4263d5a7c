// Package store provides the typed storage facade: generic free functions
// that move Entity values through any types.Service and classify every
// outcome into a closed failure taxonomy.
//
// Each operation makes one service call (FetchByOwner makes two, in
// sequence) and classifies the result in a fixed order: a service error
// maps to the operation's taxonomy value, an absent payload to
// ErrNullResponse, an undecodable payload to ErrDecodeFailure; otherwise
// the decoded value is returned. Exactly one branch fires per call. The
// facade holds no state and retains no references across calls.
package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// CurrentUserID resolves the caller's identity from the service. A service
// failure maps to ErrIdentityUnavailable; a service that answers with no
// identity maps to ErrNullResponse.
func CurrentUserID(ctx context.Context, svc types.Service) (string, error) {
	id, err := svc.CurrentUserID(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}
	if id == "" {
		return "", ErrNullResponse
	}
	return id, nil
}

// Get fetches the record with the given identifier and decodes it. Absence
// maps to ErrNullResponse; a record that is present but fails to decode
// maps to ErrDecodeFailure, never to a partial success.
func Get[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope, id string) (*T, error) {
	rec, err := svc.Fetch(ctx, scope, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailure, err)
	}
	if rec == nil {
		return nil, ErrNullResponse
	}
	obj := new(T)
	if err := PT(obj).UnmarshalRecord(rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	return obj, nil
}

// GetAll returns every record of T's tag in the scope, unconditionally.
// Zero matching records is success with an empty slice. Any record that
// fails to decode fails the whole call with ErrDecodeFailure and discards
// the rest of the batch.
func GetAll[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope) ([]*T, error) {
	var zero T
	recs, err := svc.Query(ctx, scope, PT(&zero).RecordType(), types.Query{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailure, err)
	}
	return decodeAll[T, PT](recs)
}

// FetchByOwner returns every record of T's tag created by the current
// identity. Identity resolution runs first; when it fails the query is
// never issued and the identity error is returned unchanged. The decode
// policy is the same fail-fast as GetAll.
func FetchByOwner[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope) ([]*T, error) {
	userID, err := CurrentUserID(ctx, svc)
	if err != nil {
		return nil, err
	}
	var zero T
	recs, err := svc.Query(ctx, scope, PT(&zero).RecordType(), types.Query{CreatorID: userID})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailure, err)
	}
	return decodeAll[T, PT](recs)
}

// Create encodes obj, persists it as a new record, and decodes the record
// the service returns as the canonical result. The result is not
// necessarily equal to the input: the service assigns the identifier,
// creator, and timestamps.
func Create[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope, obj PT) (*T, error) {
	return save[T, PT](ctx, svc, scope, obj, ErrInsertFailure)
}

// Update re-encodes and overwrites an existing record, returning the
// canonical stored result. The service upserts; there is no version check,
// so concurrent updates of the same record are last-write-wins.
func Update[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope, obj PT) (*T, error) {
	return save[T, PT](ctx, svc, scope, obj, ErrUpdateFailure)
}

// Remove deletes the record with the given identifier and returns that
// identifier. A service failure maps to ErrRemoveFailure; a service
// reporting that no record existed maps to ErrNullResponse.
func Remove(ctx context.Context, svc types.Service, scope types.Scope, id string) (string, error) {
	deleted, err := svc.Delete(ctx, scope, id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemoveFailure, err)
	}
	if deleted == "" {
		return "", ErrNullResponse
	}
	return deleted, nil
}

// save runs the shared encode, persist, decode-canonical flow for Create
// and Update. Encode failures surface as ErrDecodeFailure: malformed
// caller input and malformed service data classify identically.
func save[T any, PT EntityOf[T]](ctx context.Context, svc types.Service, scope types.Scope, obj PT, failure error) (*T, error) {
	rec, err := obj.MarshalRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	saved, err := svc.Save(ctx, scope, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", failure, err)
	}
	if saved == nil {
		return nil, ErrNullResponse
	}
	out := new(T)
	if err := PT(out).UnmarshalRecord(saved); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	return out, nil
}

// decodeAll decodes a query batch, failing on the first undecodable record
// and discarding the rest.
func decodeAll[T any, PT EntityOf[T]](recs []*types.Record) ([]*T, error) {
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		obj := new(T)
		if err := PT(obj).UnmarshalRecord(rec); err != nil {
			return nil, fmt.Errorf("%w: record %s: %w", ErrDecodeFailure, rec.ID(), err)
		}
		out = append(out, obj)
	}
	return out, nil
}
