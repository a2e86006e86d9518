package httpapi

import "fenrir/internal/common"

// tradingPairDTO is the wire shape of a common.TradingPair.
type tradingPairDTO struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

func (d tradingPairDTO) toDomain() common.TradingPair {
	return common.TradingPair{Base: d.Base, Quote: d.Quote}
}

func fromDomainPair(p common.TradingPair) tradingPairDTO {
	return tradingPairDTO{Base: p.Base, Quote: p.Quote}
}

type createMarketRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
}

type createMarketResponse struct {
	Created     bool           `json:"created"`
	TradingPair tradingPairDTO `json:"trading_pair"`
}

type listMarketsResponse struct {
	Markets []tradingPairDTO `json:"markets"`
}

type orderDTO struct {
	Price    string      `json:"price"`
	Quantity string      `json:"quantity"`
	Side     common.Side `json:"side" binding:"required,oneof=ASK BID"`
	UserID   uint64      `json:"user_id"`
}

type marketOrderDTO struct {
	Quantity string      `json:"quantity"`
	Side     common.Side `json:"side" binding:"required,oneof=ASK BID"`
	UserID   uint64      `json:"user_id"`
}

type addLimitRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
	Order       orderDTO       `json:"order" binding:"required"`
}

type addMarketRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
	Order       marketOrderDTO `json:"order" binding:"required"`
}

type openOrderResponse struct {
	OrderID        uint64      `json:"order_id"`
	UserID         uint64      `json:"user_id"`
	Side           common.Side `json:"side"`
	Price          string      `json:"price"`
	Quantity       string      `json:"quantity"`
	QuantityFilled string      `json:"quantity_filled"`
	Cancelled      bool        `json:"cancelled"`
}

type marketOrderResponse struct {
	Success        bool    `json:"success"`
	AveragePrice   *string `json:"average_price,omitempty"`
	FilledQuantity *string `json:"quantity,omitempty"`
}

type depthLevelDTO struct {
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	OrderCount int    `json:"order_count"`
}

type depthResponse struct {
	Bids []depthLevelDTO `json:"bids"`
	Asks []depthLevelDTO `json:"asks"`
}

type midPriceResponse struct {
	Price *string `json:"price,omitempty"`
}

type cancelRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
	OrderID     uint64         `json:"order_id" binding:"required"`
}

type cancelResponse struct {
	Price          string `json:"price"`
	Quantity       string `json:"quantity"`
	QuantityFilled string `json:"quantity_filled"`
	OrderID        uint64 `json:"order_id"`
}

type modifyRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
	OrderID     uint64         `json:"order_id" binding:"required"`
	Price       *string        `json:"price,omitempty"`
	Quantity    *string        `json:"quantity,omitempty"`
}

type modifyResponse struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	OrderID  uint64 `json:"order_id"`
}

type getOrderRequest struct {
	TradingPair tradingPairDTO `json:"trading_pair" binding:"required"`
	OrderID     uint64         `json:"order_id" binding:"required"`
}

// errorResponse is the stable envelope every failed call returns. Domain
// is "engine" or "book" (spec §7's two disjoint error domains); empty on
// malformed-request failures the transport itself rejects.
type errorResponse struct {
	Domain string `json:"domain,omitempty"`
	Error  string `json:"error"`
}
