package store

import "errors"

// Operation failure taxonomy. Every error returned by this package wraps
// exactly one of these values; classify with errors.Is. Failures surface
// immediately and verbatim: no retries at any layer.
var (
	ErrIdentityUnavailable = errors.New("identity unavailable")
	ErrNullResponse        = errors.New("null response from store")
	ErrDecodeFailure       = errors.New("record decode failed")
	ErrInsertFailure       = errors.New("record insert failed")
	ErrUpdateFailure       = errors.New("record update failed")
	ErrRemoveFailure       = errors.New("record remove failed")
	ErrRetrievalFailure    = errors.New("record retrieval failed")
)
