// Package facade is the single synchronous entry point into the trading
// engine. It owns one exclusive lock over the whole registry — every
// operation, including depth reads, takes the lock for its full duration
// — and returns, next to each error the engine and book layers produce,
// an ErrorDomain naming which of the two layers it came from.
package facade

import (
	"errors"
	"sync"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/engine"

	"github.com/rs/zerolog/log"
)

// ErrorDomain tells a caller which layer rejected a request, so an HTTP
// handler can report engine and book errors distinctly.
type ErrorDomain int

const (
	// DomainNone means the call succeeded.
	DomainNone ErrorDomain = iota
	// DomainEngine is a registry-level failure (unknown/duplicate market).
	DomainEngine
	// DomainBook is an order-book-level failure (bad price, no liquidity,
	// unknown order, ...).
	DomainBook
)

// Facade wraps the engine registry behind a single mutex. There is no
// business logic here beyond dispatch and error classification — that is
// deliberate: the matching semantics live entirely in internal/book and
// internal/engine, which can be tested without touching this lock.
type Facade struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func New() *Facade {
	return &Facade{eng: engine.New()}
}

// classify maps err to the domain its sentinel belongs to. Anything that
// isn't a known engine sentinel is assumed to originate in the book —
// the two error domains are disjoint by construction (see
// internal/engine/errors.go and internal/book/errors.go).
func classify(err error) ErrorDomain {
	if err == nil {
		return DomainNone
	}
	if errors.Is(err, engine.ErrMarketNotFound) || errors.Is(err, engine.ErrMarketAlreadyExists) {
		return DomainEngine
	}
	return DomainBook
}

func (f *Facade) CreateMarket(pair common.TradingPair) (ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.eng.CreateMarket(pair)
	if err != nil {
		log.Warn().Str("pair", pair.String()).Err(err).Msg("create market rejected")
	} else {
		log.Info().Str("pair", pair.String()).Msg("market created")
	}
	return classify(err), err
}

func (f *Facade) ListMarkets() []common.TradingPair {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.eng.ListMarkets()
}

func (f *Facade) AddLimitOrder(pair common.TradingPair, req book.LimitOrderRequest) (*book.OpenOrder, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.eng.AddLimitOrder(pair, req)
	return order, classify(err), err
}

func (f *Facade) AddMarketOrder(pair common.TradingPair, req book.MarketOrderRequest) (*book.MarketOrderResult, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, err := f.eng.AddMarketOrder(pair, req)
	return res, classify(err), err
}

func (f *Facade) Cancel(pair common.TradingPair, orderID uint64) (*book.CancelResult, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, err := f.eng.Cancel(pair, orderID)
	return res, classify(err), err
}

func (f *Facade) Modify(pair common.TradingPair, req book.ModifyOrderRequest) (*book.ModifyResult, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, err := f.eng.Modify(pair, req)
	return res, classify(err), err
}

func (f *Facade) GetOrder(pair common.TradingPair, orderID uint64) (*book.OpenOrder, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.eng.GetOrder(pair, orderID)
	return order, classify(err), err
}

func (f *Facade) Depth(pair common.TradingPair) (book.Depth, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth, err := f.eng.Depth(pair)
	return depth, classify(err), err
}

func (f *Facade) MidPrice(pair common.TradingPair) (common.Decimal, bool, ErrorDomain, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mid, ok, err := f.eng.MidPrice(pair)
	return mid, ok, classify(err), err
}
