package book_test

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) common.Decimal {
	dec, err := common.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return dec
}

func limit(ob *book.OrderBook, side common.Side, price, qty string, user uint64) *book.OpenOrder {
	o, err := ob.AddLimitOrder(book.LimitOrderRequest{
		Side:     side,
		Price:    d(price),
		Quantity: d(qty),
		UserID:   user,
	})
	if err != nil {
		panic(err)
	}
	return o
}

// Scenario 1: simple equal-price cross (spec.md §8).
func TestSimpleEqualPriceCross(t *testing.T) {
	ob := book.NewOrderBook()

	ask := limit(ob, common.Ask, "105", "200", 1)
	assert.Equal(t, uint64(1), ask.OrderID)

	bid := limit(ob, common.Bid, "105", "100", 2)
	assert.Equal(t, uint64(2), bid.OrderID)
	assert.True(t, bid.QuantityFilled.Equal(d("100")))

	restingAsk, err := ob.GetOrder(1)
	require.NoError(t, err)
	assert.True(t, restingAsk.QuantityFilled.Equal(d("100")))
	assert.True(t, restingAsk.Remaining().Equal(d("100")))

	depth := ob.Depth()
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Asks[0].Price.Equal(d("105")))
	assert.True(t, depth.Asks[0].AggregateRemainingQty.Equal(d("100")))
	assert.Equal(t, 1, depth.Asks[0].OrderCount)
	assert.Empty(t, depth.Bids)

	require.NoError(t, ob.CheckInvariants())
}

// Scenario 2: walk through the book across several ask levels.
func TestWalkThroughTheBook(t *testing.T) {
	ob := book.NewOrderBook()

	limit(ob, common.Ask, "105.1", "200", 1)
	limit(ob, common.Ask, "105.2", "200", 1)
	limit(ob, common.Ask, "105.5", "200", 1)
	limit(ob, common.Ask, "105.8", "200", 1)
	limit(ob, common.Ask, "105.9", "200", 1)

	bid := limit(ob, common.Bid, "105.5", "100", 2)
	assert.Equal(t, uint64(6), bid.OrderID)
	assert.True(t, bid.QuantityFilled.Equal(d("100")))

	ask1, err := ob.GetOrder(1)
	require.NoError(t, err)
	assert.True(t, ask1.QuantityFilled.Equal(d("100")))

	bid2 := limit(ob, common.Bid, "105.5", "600", 2)
	assert.Equal(t, uint64(7), bid2.OrderID)
	assert.True(t, bid2.QuantityFilled.Equal(d("500")))

	for _, id := range []uint64{1, 2, 3} {
		o, err := ob.GetOrder(id)
		require.NoError(t, err)
		assert.True(t, o.FullyMatched(), "order %d should be fully matched", id)
	}

	depth := ob.Depth()
	require.Len(t, depth.Bids, 1)
	assert.True(t, depth.Bids[0].Price.Equal(d("105.5")))
	assert.True(t, depth.Bids[0].AggregateRemainingQty.Equal(d("100")))
	assert.Equal(t, 1, depth.Bids[0].OrderCount)

	require.NoError(t, ob.CheckInvariants())
}

// Scenario 3: market order average price is equal-weighted over touched
// orders, not size-weighted.
func TestMarketOrderEqualWeightedAverage(t *testing.T) {
	ob := book.NewOrderBook()

	limit(ob, common.Ask, "105", "200", 1)
	limit(ob, common.Ask, "107", "200", 1)

	res, err := ob.AddMarketOrder(book.MarketOrderRequest{
		Side:     common.Bid,
		Quantity: d("300"),
		UserID:   2,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.FilledQuantity.Equal(d("300")))
	assert.True(t, res.AveragePrice.Equal(d("106")), "expected equal-weighted mean (105+107)/2, got %s", res.AveragePrice)

	depth := ob.Depth()
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Asks[0].Price.Equal(d("107")))
	assert.True(t, depth.Asks[0].AggregateRemainingQty.Equal(d("100")))

	require.NoError(t, ob.CheckInvariants())
}

func TestCancelActiveOrder(t *testing.T) {
	ob := book.NewOrderBook()
	ask := limit(ob, common.Ask, "105", "200", 1)

	res, err := ob.Cancel(ask.OrderID)
	require.NoError(t, err)
	assert.True(t, res.QuantityFilled.Equal(common.Zero))

	depth := ob.Depth()
	assert.Empty(t, depth.Asks)

	_, err = ob.Cancel(ask.OrderID)
	assert.ErrorIs(t, err, book.ErrOrderAlreadyCancelled)
}

func TestCancelFullyMatchedOrder(t *testing.T) {
	ob := book.NewOrderBook()
	ask := limit(ob, common.Ask, "105", "200", 1)
	limit(ob, common.Bid, "105", "200", 2)

	_, err := ob.Cancel(ask.OrderID)
	assert.ErrorIs(t, err, book.ErrOrderAlreadyMatched)

	depth := ob.Depth()
	assert.Empty(t, depth.Asks)
	assert.Empty(t, depth.Bids)
}

func TestModifyQuantityBelowFilled(t *testing.T) {
	ob := book.NewOrderBook()
	bid := limit(ob, common.Bid, "105", "200", 1)
	limit(ob, common.Ask, "105", "100", 2)

	below := d("50")
	_, err := ob.Modify(book.ModifyOrderRequest{OrderID: bid.OrderID, NewQuantity: &below})
	assert.ErrorIs(t, err, book.ErrQuantityBelowFilled)

	above := d("150")
	res, err := ob.Modify(book.ModifyOrderRequest{OrderID: bid.OrderID, NewQuantity: &above})
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(d("150")))

	o, err := ob.GetOrder(bid.OrderID)
	require.NoError(t, err)
	assert.True(t, o.QuantityFilled.Equal(d("100")))
}

func TestModifyPriceChangeForfeitsTimePriority(t *testing.T) {
	ob := book.NewOrderBook()
	first := limit(ob, common.Bid, "100", "10", 1)
	second := limit(ob, common.Bid, "100", "10", 1)

	newPrice := d("100")
	_, err := ob.Modify(book.ModifyOrderRequest{OrderID: first.OrderID, NewPrice: &newPrice})
	require.NoError(t, err) // no-op: same price, no reordering

	movedPrice := d("99")
	_, err = ob.Modify(book.ModifyOrderRequest{OrderID: first.OrderID, NewPrice: &movedPrice})
	require.NoError(t, err)

	depth := ob.Depth()
	require.Len(t, depth.Bids, 2)
	assert.True(t, depth.Bids[0].Price.Equal(d("100")))
	assert.True(t, depth.Bids[1].Price.Equal(d("99")))

	// Moving back to 100 queues the order behind the one that never moved.
	backPrice := d("100")
	_, err = ob.Modify(book.ModifyOrderRequest{OrderID: first.OrderID, NewPrice: &backPrice})
	require.NoError(t, err)

	limit(ob, common.Ask, "100", "10", 2)

	o2, err := ob.GetOrder(second.OrderID)
	require.NoError(t, err)
	assert.True(t, o2.FullyMatched(), "order that kept its place should fill first")

	o1, err := ob.GetOrder(first.OrderID)
	require.NoError(t, err)
	assert.True(t, o1.QuantityFilled.IsZero(), "re-priced order should have lost time priority")
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	ob := book.NewOrderBook()
	first := limit(ob, common.Ask, "100", "10", 1)
	second := limit(ob, common.Ask, "100", "10", 1)

	bid := limit(ob, common.Bid, "100", "10", 2)
	assert.True(t, bid.QuantityFilled.Equal(d("10")))

	o1, err := ob.GetOrder(first.OrderID)
	require.NoError(t, err)
	assert.True(t, o1.FullyMatched(), "earlier order should fill first")

	o2, err := ob.GetOrder(second.OrderID)
	require.NoError(t, err)
	assert.True(t, o2.Remaining().Equal(d("10")), "later order should be untouched")
}

func TestMarketOrderNoLiquidity(t *testing.T) {
	ob := book.NewOrderBook()
	_, err := ob.AddMarketOrder(book.MarketOrderRequest{Side: common.Bid, Quantity: d("10"), UserID: 1})
	assert.ErrorIs(t, err, book.ErrNoLiquidity)
}

func TestMarketOrderPartialFillOnInsufficientLiquidity(t *testing.T) {
	ob := book.NewOrderBook()
	limit(ob, common.Ask, "100", "50", 1)

	res, err := ob.AddMarketOrder(book.MarketOrderRequest{Side: common.Bid, Quantity: d("100"), UserID: 2})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.FilledQuantity.Equal(d("50")))

	depth := ob.Depth()
	assert.Empty(t, depth.Asks)
}

func TestOrderIDsAreMonotoneStartingAtOne(t *testing.T) {
	ob := book.NewOrderBook()
	for i := uint64(1); i <= 5; i++ {
		o := limit(ob, common.Ask, "100", "1", 1)
		assert.Equal(t, i, o.OrderID)
	}
}

func TestRoundTripAdmitThenCancel(t *testing.T) {
	ob := book.NewOrderBook()
	before := ob.Depth()

	order := limit(ob, common.Ask, "100", "5", 1)
	_, err := ob.Cancel(order.OrderID)
	require.NoError(t, err)

	after := ob.Depth()
	assert.Equal(t, before, after)
}

func TestDepthIsPureBetweenReads(t *testing.T) {
	ob := book.NewOrderBook()
	limit(ob, common.Ask, "100", "5", 1)
	limit(ob, common.Bid, "99", "5", 2)

	assert.Equal(t, ob.Depth(), ob.Depth())
}

func TestGetOrderNotFound(t *testing.T) {
	ob := book.NewOrderBook()
	_, err := ob.GetOrder(999)
	assert.ErrorIs(t, err, book.ErrOrderNotFound)
}

func TestBestBidAskSpreadMidPrice(t *testing.T) {
	ob := book.NewOrderBook()
	_, ok := ob.Spread()
	assert.False(t, ok)

	limit(ob, common.Ask, "102", "10", 1)
	limit(ob, common.Bid, "98", "10", 1)

	spread, ok := ob.Spread()
	require.True(t, ok)
	assert.True(t, spread.Equal(d("4")))

	mid, ok := ob.MidPrice()
	require.True(t, ok)
	assert.True(t, mid.Equal(d("100")))
}
