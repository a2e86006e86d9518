package engine_test

import (
	"testing"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(base, quote string) common.TradingPair {
	return common.TradingPair{Base: base, Quote: quote}
}

func d(s string) common.Decimal {
	dec, err := common.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return dec
}

func TestCreateMarketAndDispatch(t *testing.T) {
	e := engine.New()
	btcUsd := pair("BTC", "USD")

	require.NoError(t, e.CreateMarket(btcUsd))

	order, err := e.AddLimitOrder(btcUsd, book.LimitOrderRequest{
		Side:     common.Ask,
		Price:    d("100"),
		Quantity: d("1"),
		UserID:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), order.OrderID)
}

func TestCreateMarketTwiceFails(t *testing.T) {
	e := engine.New()
	ethUsd := pair("ETH", "USD")

	require.NoError(t, e.CreateMarket(ethUsd))
	err := e.CreateMarket(ethUsd)
	assert.ErrorIs(t, err, engine.ErrMarketAlreadyExists)
}

func TestDispatchToUnknownMarketFails(t *testing.T) {
	e := engine.New()
	unknown := pair("DOGE", "USD")

	_, err := e.AddLimitOrder(unknown, book.LimitOrderRequest{
		Side: common.Bid, Price: d("1"), Quantity: d("1"), UserID: 1,
	})
	assert.ErrorIs(t, err, engine.ErrMarketNotFound)

	_, err = e.Depth(unknown)
	assert.ErrorIs(t, err, engine.ErrMarketNotFound)

	_, _, err = e.MidPrice(unknown)
	assert.ErrorIs(t, err, engine.ErrMarketNotFound)

	_, err = e.Cancel(unknown, 1)
	assert.ErrorIs(t, err, engine.ErrMarketNotFound)

	_, err = e.GetOrder(unknown, 1)
	assert.ErrorIs(t, err, engine.ErrMarketNotFound)
}

func TestListMarketsIsLexicographicallyOrdered(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.CreateMarket(pair("ETH", "USD")))
	require.NoError(t, e.CreateMarket(pair("BTC", "USD")))
	require.NoError(t, e.CreateMarket(pair("BTC", "EUR")))

	got := e.ListMarkets()
	want := []common.TradingPair{
		pair("BTC", "EUR"),
		pair("BTC", "USD"),
		pair("ETH", "USD"),
	}
	assert.Equal(t, want, got)
}

func TestMarketsAreIndependentBooks(t *testing.T) {
	e := engine.New()
	btcUsd := pair("BTC", "USD")
	ethUsd := pair("ETH", "USD")
	require.NoError(t, e.CreateMarket(btcUsd))
	require.NoError(t, e.CreateMarket(ethUsd))

	_, err := e.AddLimitOrder(btcUsd, book.LimitOrderRequest{
		Side: common.Ask, Price: d("100"), Quantity: d("1"), UserID: 1,
	})
	require.NoError(t, err)

	depth, err := e.Depth(ethUsd)
	require.NoError(t, err)
	assert.Empty(t, depth.Asks)
	assert.Empty(t, depth.Bids)
}
