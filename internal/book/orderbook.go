// Package book implements a single trading pair's central limit order book:
// price-indexed queues of resting orders on two sides, matched in strict
// price-time priority.
package book

import (
	"fmt"

	"fenrir/internal/common"
)

// OrderBook owns one instrument's two-sided book plus the flat id→order
// index that backs cancel, modify, and get_order lookups.
type OrderBook struct {
	bids *sideBook // iterates highest price first
	asks *sideBook // iterates lowest price first

	nextOrderID uint64
	index       map[uint64]*OpenOrder
}

// NewOrderBook returns an empty book. The first order placed on it is
// assigned id 1 (spec.md §3: the counter is incremented before use).
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:  newSideBook(func(a, b common.Decimal) bool { return a.GreaterThan(b) }),
		asks:  newSideBook(func(a, b common.Decimal) bool { return a.LessThan(b) }),
		index: make(map[uint64]*OpenOrder),
	}
}

func (b *OrderBook) sideBookFor(s common.Side) *sideBook {
	if s == common.Bid {
		return b.bids
	}
	return b.asks
}

// panicInvariant reports a programming-error-level invariant violation
// (spec.md §7): these are fatal, never converted into a recoverable error.
func panicInvariant(format string, args ...any) {
	panic(fmt.Sprintf("orderbook: invariant violation: "+format, args...))
}

func validatePriceQty(price, quantity common.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	return nil
}

func validateQty(quantity common.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	return nil
}

// matchAgainstOpposite walks opp in its natural (best-price-first) order,
// draining each level front-to-back until remaining hits zero, the side is
// exhausted, or crossAllowed rejects the next level's price. crossAllowed
// may be nil (market orders: consume as much as possible, no price guard).
//
// Returns the quantity still unfilled and one trade price per resting
// order touched (not per unit) — the latter drives both the matching loop
// and, for market orders, the equal-weighted average price (spec.md §4.1.2,
// §9: a deliberate, specified divergence from size-weighted VWAP).
func (b *OrderBook) matchAgainstOpposite(opp *sideBook, remaining common.Decimal, crossAllowed func(levelPrice common.Decimal) bool) (common.Decimal, []common.Decimal) {
	var tradePrices []common.Decimal

	for remaining.IsPositive() {
		lvl, ok := opp.best()
		if !ok {
			break
		}
		if crossAllowed != nil && !crossAllowed(lvl.Price) {
			break
		}

		i := 0
		for i < len(lvl.Orders) && remaining.IsPositive() {
			resting := lvl.Orders[i]
			take := common.Min(remaining, resting.Remaining())
			resting.QuantityFilled = resting.QuantityFilled.Add(take)
			remaining = remaining.Sub(take)
			tradePrices = append(tradePrices, lvl.Price)
			if resting.FullyMatched() {
				i++
			}
		}
		if i > 0 {
			lvl.Orders = lvl.Orders[i:]
		}
		opp.deleteIfEmpty(lvl)
	}

	return remaining, tradePrices
}

// AddLimitOrder admits a limit order: it is matched against the opposite
// side first, then any remainder rests on its own side at its own price
// (spec.md §4.1.1). The returned OpenOrder is the canonical record even
// when fully matched — it is always inserted into the order index.
func (b *OrderBook) AddLimitOrder(req LimitOrderRequest) (*OpenOrder, error) {
	if !req.Side.Valid() {
		return nil, ErrInvalidSide
	}
	if err := validatePriceQty(req.Price, req.Quantity); err != nil {
		return nil, err
	}

	b.nextOrderID++
	id := b.nextOrderID

	opp := b.sideBookFor(req.Side.Opposite())
	crossAllowed := func(levelPrice common.Decimal) bool {
		if req.Side == common.Bid {
			return !levelPrice.GreaterThan(req.Price) // stop once opp price > incoming bid
		}
		return !levelPrice.LessThan(req.Price) // stop once opp price < incoming ask
	}

	remaining, _ := b.matchAgainstOpposite(opp, req.Quantity, crossAllowed)

	order := &OpenOrder{
		OrderID:        id,
		UserID:         req.UserID,
		Side:           req.Side,
		Price:          req.Price,
		Quantity:       req.Quantity,
		QuantityFilled: req.Quantity.Sub(remaining),
	}
	b.index[id] = order

	if remaining.IsPositive() {
		own := b.sideBookFor(req.Side)
		lvl := own.getOrCreate(req.Price)
		lvl.Orders = append(lvl.Orders, order)
	}

	return order, nil
}

// AddMarketOrder admits a market order: it sweeps the opposite side with
// no price guard until filled or the side is exhausted (spec.md §4.1.2).
// Market orders never rest and never enter the order index.
func (b *OrderBook) AddMarketOrder(req MarketOrderRequest) (*MarketOrderResult, error) {
	if !req.Side.Valid() {
		return nil, ErrInvalidSide
	}
	if err := validateQty(req.Quantity); err != nil {
		return nil, err
	}

	opp := b.sideBookFor(req.Side.Opposite())
	if opp.len() == 0 {
		return nil, ErrNoLiquidity
	}

	remaining, tradePrices := b.matchAgainstOpposite(opp, req.Quantity, nil)
	filled := req.Quantity.Sub(remaining)

	avg := common.Zero
	if len(tradePrices) > 0 {
		sum := common.Zero
		for _, p := range tradePrices {
			sum = sum.Add(p)
		}
		avg = sum.Div(common.NewDecimalFromInt(int64(len(tradePrices))))
	}

	return &MarketOrderResult{
		Success:        true,
		FilledQuantity: filled,
		AveragePrice:   avg,
	}, nil
}

// Cancel removes an active (not fully matched, not already cancelled)
// order from its side (spec.md §4.1.3). The order record remains in the
// index afterwards so a later GetOrder or a repeated Cancel still resolves
// it — to ErrOrderAlreadyCancelled rather than ErrOrderNotFound.
func (b *OrderBook) Cancel(orderID uint64) (*CancelResult, error) {
	order, ok := b.index[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Cancelled {
		return nil, ErrOrderAlreadyCancelled
	}
	if order.FullyMatched() {
		return nil, ErrOrderAlreadyMatched
	}

	side := b.sideBookFor(order.Side)
	lvl, ok := side.get(order.Price)
	if !ok {
		panicInvariant("active order %d has no backing price level at %s", order.OrderID, order.Price)
	}
	lvl.remove(order.OrderID)
	side.deleteIfEmpty(lvl)

	order.Cancelled = true

	return &CancelResult{
		OrderID:        order.OrderID,
		Price:          order.Price,
		Quantity:       order.Quantity,
		QuantityFilled: order.QuantityFilled,
	}, nil
}

// Modify applies an in-place quantity and/or price change (spec.md
// §4.1.4). Quantity-only changes keep the order's queue position. A price
// change removes the order from its current level and reinserts it at the
// tail of the new level, forfeiting time priority — the policy spec.md §9
// calls out as the one that needs picking and documenting.
func (b *OrderBook) Modify(req ModifyOrderRequest) (*ModifyResult, error) {
	order, ok := b.index[req.OrderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Cancelled {
		return nil, ErrOrderAlreadyCancelled
	}
	if order.FullyMatched() {
		return nil, ErrOrderAlreadyMatched
	}
	if req.NewQuantity != nil && req.NewQuantity.LessThan(order.QuantityFilled) {
		return nil, ErrQuantityBelowFilled
	}

	priceChanged := req.NewPrice != nil && !req.NewPrice.Equal(order.Price)

	side := b.sideBookFor(order.Side)
	lvl, ok := side.get(order.Price)
	if !ok {
		panicInvariant("active order %d has no backing price level at %s", order.OrderID, order.Price)
	}

	if priceChanged {
		lvl.remove(order.OrderID)
		side.deleteIfEmpty(lvl)
	}

	if req.NewQuantity != nil {
		order.Quantity = *req.NewQuantity
	}
	if req.NewPrice != nil {
		order.Price = *req.NewPrice
	}

	if priceChanged {
		newLvl := side.getOrCreate(order.Price)
		newLvl.Orders = append(newLvl.Orders, order)
	}

	return &ModifyResult{
		OrderID:  order.OrderID,
		Price:    order.Price,
		Quantity: order.Quantity,
	}, nil
}

// GetOrder returns a copy of the canonical order record; callers cannot
// mutate book state through it.
func (b *OrderBook) GetOrder(orderID uint64) (*OpenOrder, error) {
	order, ok := b.index[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.clone(), nil
}

// BestBid/BestAsk return the head of each side, or ok=false if empty.
func (b *OrderBook) BestBid() (common.Decimal, bool) {
	return priceOf(b.bids.best())
}

func (b *OrderBook) BestAsk() (common.Decimal, bool) {
	return priceOf(b.asks.best())
}

// WorstBid/WorstAsk return the tail of each side — supplemented from
// original_source/orderbook/src/orderbook/orderbook.rs (get_worst_bid,
// get_worst_ask), not load-bearing for matching but a natural read
// alongside best-of-book.
func (b *OrderBook) WorstBid() (common.Decimal, bool) {
	return priceOf(b.bids.worst())
}

func (b *OrderBook) WorstAsk() (common.Decimal, bool) {
	return priceOf(b.asks.worst())
}

func priceOf(lvl *priceLevel, ok bool) (common.Decimal, bool) {
	if !ok {
		return common.Zero, false
	}
	return lvl.Price, true
}

// Spread is best_ask - best_bid, or ok=false if either side is empty.
func (b *OrderBook) Spread() (common.Decimal, bool) {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk {
		return common.Zero, false
	}
	return ask.Sub(bid), true
}

// MidPrice is (best_ask + best_bid) / 2, or ok=false if either side is
// empty.
func (b *OrderBook) MidPrice() (common.Decimal, bool) {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk {
		return common.Zero, false
	}
	return ask.Add(bid).Div(common.NewDecimalFromInt(2)), true
}

// Depth snapshots both sides as aggregated price levels, asks ascending
// and bids descending (spec.md §4.1.5). It is a pure function of book
// state: two consecutive calls with no intervening mutation are equal.
func (b *OrderBook) Depth() Depth {
	var d Depth
	b.bids.scan(func(lvl *priceLevel) bool {
		d.Bids = append(d.Bids, DepthLevel{
			Price:                 lvl.Price,
			AggregateRemainingQty: lvl.aggregateRemaining(),
			OrderCount:            len(lvl.Orders),
		})
		return true
	})
	b.asks.scan(func(lvl *priceLevel) bool {
		d.Asks = append(d.Asks, DepthLevel{
			Price:                 lvl.Price,
			AggregateRemainingQty: lvl.aggregateRemaining(),
			OrderCount:            len(lvl.Orders),
		})
		return true
	})
	return d
}

// CheckInvariants validates the book's structural invariants: no crossed
// book, no empty price level, every resting order is the same record as
// its index entry with quantity_filled <= quantity, and every active
// (uncancelled, unfilled) index entry rests on a side. Id monotonicity and
// FIFO order within a level are not checked here. It is not called on
// every mutation (that would be needless overhead on the hot path) — it is
// for tests to assert the book never silently corrupts itself.
func (b *OrderBook) CheckInvariants() error {
	bestBid, bidOk := b.BestBid()
	bestAsk, askOk := b.BestAsk()
	if bidOk && askOk && !bestAsk.GreaterThan(bestBid) {
		return fmt.Errorf("crossed book: best_ask %s <= best_bid %s", bestAsk, bestBid)
	}

	seen := make(map[uint64]bool)
	checkSide := func(sb *sideBook, side common.Side) error {
		var err error
		sb.scan(func(lvl *priceLevel) bool {
			if len(lvl.Orders) == 0 {
				err = fmt.Errorf("empty price level at %s", lvl.Price)
				return false
			}
			for _, o := range lvl.Orders {
				idx, ok := b.index[o.OrderID]
				if !ok {
					err = fmt.Errorf("order %d present on %s side but missing from index", o.OrderID, side)
					return false
				}
				if idx != o {
					err = fmt.Errorf("order %d: side copy and index copy are not the same record", o.OrderID)
					return false
				}
				if o.QuantityFilled.GreaterThan(o.Quantity) {
					err = fmt.Errorf("order %d: quantity_filled %s exceeds quantity %s", o.OrderID, o.QuantityFilled, o.Quantity)
					return false
				}
				seen[o.OrderID] = true
			}
			return true
		})
		return err
	}
	if err := checkSide(b.bids, common.Bid); err != nil {
		return err
	}
	if err := checkSide(b.asks, common.Ask); err != nil {
		return err
	}
	for id, o := range b.index {
		if !o.Cancelled && o.Remaining().IsPositive() && !seen[id] {
			return fmt.Errorf("order %d has remaining quantity but rests on no price level", id)
		}
	}
	return nil
}
