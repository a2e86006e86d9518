package common

import "fmt"

// TradingPair identifies a market by its base and quote symbols. Equality
// and ordering are component-wise, which makes it usable directly as a map
// key and, via Less, as a sort/comparator key for an ordered registry.
type TradingPair struct {
	Base  string
	Quote string
}

func (p TradingPair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Less gives the lexicographic order on (base, quote) spec.md names as the
// natural order for an ordered market registry.
func (p TradingPair) Less(other TradingPair) bool {
	if p.Base != other.Base {
		return p.Base < other.Base
	}
	return p.Quote < other.Quote
}
