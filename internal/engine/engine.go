// Package engine is the multi-market registry: it maps a trading pair to
// an independent order book and dispatches operations to it (spec.md
// §4.2). It holds no lock of its own — spec.md §5 puts the single
// exclusive lock at the facade, which owns the whole request lifecycle.
package engine

import (
	"sort"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

// Engine is a registry of (TradingPair -> *book.OrderBook). Books are
// created on demand by CreateMarket and never destroyed.
type Engine struct {
	books map[common.TradingPair]*book.OrderBook
}

func New() *Engine {
	return &Engine{books: make(map[common.TradingPair]*book.OrderBook)}
}

// CreateMarket inserts a fresh empty book for pair.
func (e *Engine) CreateMarket(pair common.TradingPair) error {
	if _, exists := e.books[pair]; exists {
		return ErrMarketAlreadyExists
	}
	e.books[pair] = book.NewOrderBook()
	return nil
}

// ListMarkets returns every registered trading pair in lexicographic
// order — spec.md §4.2 says order is not contractually required but calls
// this the "natural and acceptable" choice for an ordered registry.
func (e *Engine) ListMarkets() []common.TradingPair {
	pairs := make([]common.TradingPair, 0, len(e.books))
	for pair := range e.books {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
	return pairs
}

func (e *Engine) lookup(pair common.TradingPair) (*book.OrderBook, error) {
	ob, ok := e.books[pair]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return ob, nil
}

// AddLimitOrder dispatches to pair's book. The returned error may be
// either engine-level (market not found) or book-level (invalid side,
// price, or quantity) — callers distinguish via errors.Is against the two
// packages' sentinels.
func (e *Engine) AddLimitOrder(pair common.TradingPair, req book.LimitOrderRequest) (*book.OpenOrder, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return nil, err
	}
	return ob.AddLimitOrder(req)
}

// AddMarketOrder dispatches to pair's book. The returned error may be
// either engine-level (market not found) or book-level (no liquidity,
// invalid quantity) — callers distinguish via errors.Is against the two
// packages' sentinels.
func (e *Engine) AddMarketOrder(pair common.TradingPair, req book.MarketOrderRequest) (*book.MarketOrderResult, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return nil, err
	}
	return ob.AddMarketOrder(req)
}

func (e *Engine) Cancel(pair common.TradingPair, orderID uint64) (*book.CancelResult, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return nil, err
	}
	return ob.Cancel(orderID)
}

func (e *Engine) Modify(pair common.TradingPair, req book.ModifyOrderRequest) (*book.ModifyResult, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return nil, err
	}
	return ob.Modify(req)
}

func (e *Engine) GetOrder(pair common.TradingPair, orderID uint64) (*book.OpenOrder, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return nil, err
	}
	return ob.GetOrder(orderID)
}

func (e *Engine) Depth(pair common.TradingPair) (book.Depth, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return book.Depth{}, err
	}
	return ob.Depth(), nil
}

func (e *Engine) MidPrice(pair common.TradingPair) (common.Decimal, bool, error) {
	ob, err := e.lookup(pair)
	if err != nil {
		return common.Zero, false, err
	}
	mid, ok := ob.MidPrice()
	return mid, ok, nil
}
