package engine

import "errors"

// Engine-level errors (spec.md §7): registry-scoped failures, kept
// distinguishable from book-level errors in the facade's response
// envelope.
var (
	ErrMarketNotFound      = errors.New("market not found")
	ErrMarketAlreadyExists = errors.New("market already exists")
)
