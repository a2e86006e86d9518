package book

import (
	"fenrir/internal/common"

	"github.com/tidwall/btree"
)

// priceLevel is one resting price: a FIFO queue of orders, earliest arrival
// first. It is stored by pointer inside the side's btree so mutating
// Orders in place (on a fill, a cancel, or a modify) never requires a
// Set/re-insert round-trip.
type priceLevel struct {
	Price  common.Decimal
	Orders []*OpenOrder
}

// remove splices order out of the level's queue, preserving FIFO order of
// the survivors.
func (lvl *priceLevel) remove(orderID uint64) {
	for i, o := range lvl.Orders {
		if o.OrderID == orderID {
			lvl.Orders = append(lvl.Orders[:i], lvl.Orders[i+1:]...)
			return
		}
	}
}

func (lvl *priceLevel) aggregateRemaining() common.Decimal {
	total := common.Zero
	for _, o := range lvl.Orders {
		total = total.Add(o.Remaining())
	}
	return total
}

// sideBook is one side (bids or asks) of the book: an ordered map from
// price to priceLevel. The comparator passed to newSideBook decides
// iteration order — "greater than" for bids (best bid first), "less than"
// for asks (best ask first) — so Min() always yields top of book and
// Scan() always walks the side in priority order.
type sideBook struct {
	tree *btree.BTreeG[*priceLevel]
}

func newSideBook(better func(a, b common.Decimal) bool) *sideBook {
	return &sideBook{
		tree: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return better(a.Price, b.Price)
		}),
	}
}

func (s *sideBook) best() (*priceLevel, bool) {
	return s.tree.Min()
}

func (s *sideBook) worst() (*priceLevel, bool) {
	return s.tree.Max()
}

func (s *sideBook) get(price common.Decimal) (*priceLevel, bool) {
	return s.tree.Get(&priceLevel{Price: price})
}

func (s *sideBook) getOrCreate(price common.Decimal) *priceLevel {
	if lvl, ok := s.get(price); ok {
		return lvl
	}
	lvl := &priceLevel{Price: price}
	s.tree.Set(lvl)
	return lvl
}

// deleteIfEmpty enforces the price-level non-emptiness invariant (spec.md
// §3 invariant 2): a level with no orders left has no reason to exist.
func (s *sideBook) deleteIfEmpty(lvl *priceLevel) {
	if len(lvl.Orders) == 0 {
		s.tree.Delete(lvl)
	}
}

func (s *sideBook) len() int {
	return s.tree.Len()
}

// scan walks every level in side-priority order (best first).
func (s *sideBook) scan(fn func(lvl *priceLevel) bool) {
	s.tree.Scan(fn)
}
