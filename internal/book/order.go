package book

import "fenrir/internal/common"

// OpenOrder is the canonical record of an order: the same struct is shared
// (by pointer) between a side's price-level queue and the book's order
// index, so a fill only ever has one place to be written — the two views
// can never disagree (spec.md §3 invariant 1, §9 "tighter invariants ...
// handles into a slab-style arena").
type OpenOrder struct {
	OrderID        uint64
	UserID         uint64
	Side           common.Side
	Price          common.Decimal
	Quantity       common.Decimal
	QuantityFilled common.Decimal
	// Cancelled is set by Cancel and retained afterwards, so a second
	// cancel of the same id is distinguishable from one that was never
	// placed (spec.md §9 "retention of closed orders").
	Cancelled bool
}

// Remaining is the unfilled quantity still resting on the book.
func (o *OpenOrder) Remaining() common.Decimal {
	return o.Quantity.Sub(o.QuantityFilled)
}

// FullyMatched reports whether the order has no quantity left to fill.
func (o *OpenOrder) FullyMatched() bool {
	return o.QuantityFilled.Equal(o.Quantity)
}

func (o *OpenOrder) clone() *OpenOrder {
	cp := *o
	return &cp
}

// LimitOrderRequest is the input to AddLimitOrder.
type LimitOrderRequest struct {
	Side     common.Side
	Price    common.Decimal
	Quantity common.Decimal
	UserID   uint64
}

// MarketOrderRequest is the input to AddMarketOrder.
type MarketOrderRequest struct {
	Side     common.Side
	Quantity common.Decimal
	UserID   uint64
}

// MarketOrderResult reports the outcome of a market order sweep.
type MarketOrderResult struct {
	Success        bool
	FilledQuantity common.Decimal
	AveragePrice   common.Decimal
}

// ModifyOrderRequest carries optional new price/quantity for an existing
// order. A nil field means "leave unchanged".
type ModifyOrderRequest struct {
	OrderID     uint64
	NewPrice    *common.Decimal
	NewQuantity *common.Decimal
}

// ModifyResult is the canonical shape of a successful modify.
type ModifyResult struct {
	OrderID  uint64
	Price    common.Decimal
	Quantity common.Decimal
}

// CancelResult is the canonical shape of a successful cancel.
type CancelResult struct {
	OrderID        uint64
	Price          common.Decimal
	Quantity       common.Decimal
	QuantityFilled common.Decimal
}

// DepthLevel is one aggregated row of a depth snapshot.
type DepthLevel struct {
	Price                 common.Decimal
	AggregateRemainingQty common.Decimal
	OrderCount            int
}

// Depth is a full two-sided snapshot, asks ascending and bids descending.
type Depth struct {
	Bids []DepthLevel
	Asks []DepthLevel
}
