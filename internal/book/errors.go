package book

import "errors"

// Book-level errors (spec.md §7): order-scoped failures surfaced to the
// caller unchanged. These are recoverable by definition — distinct from
// invariant violations, which panic (see panicInvariant in orderbook.go).
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyMatched   = errors.New("order already matched")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrQuantityBelowFilled   = errors.New("quantity below filled quantity")
	ErrNoLiquidity           = errors.New("not enough liquidity")

	// Input validation. spec.md requires price > 0 and quantity > 0 on
	// admission; the Rust source gets this for free from its type system,
	// Go needs an explicit runtime check at the start of AddLimitOrder and
	// AddMarketOrder.
	ErrInvalidPrice    = errors.New("price must be strictly positive")
	ErrInvalidQuantity = errors.New("quantity must be strictly positive")

	// ErrInvalidSide rejects anything but common.Ask/common.Bid. Without
	// this check an unrecognised Side falls through both sideBookFor and
	// Side.Opposite's equality tests to the same branch, so "own side"
	// and "opposite side" resolve to the same book — a malformed request
	// would silently corrupt price-time priority instead of failing.
	ErrInvalidSide = errors.New("side must be ASK or BID")
)
