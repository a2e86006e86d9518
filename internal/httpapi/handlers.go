package httpapi

import (
	"errors"
	"net/http"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/facade"
	"fenrir/internal/metrics"

	"github.com/gin-gonic/gin"
)

// domainLabel returns the stable tag string spec §7 asks for: "engine"
// or "book". DomainNone never reaches here (callers only invoke this on
// a non-nil error).
func domainLabel(d facade.ErrorDomain) string {
	if d == facade.DomainEngine {
		return "engine"
	}
	return "book"
}

func writeError(c *gin.Context, status int, domain facade.ErrorDomain, err error) {
	c.JSON(status, errorResponse{Domain: domainLabel(domain), Error: err.Error()})
}

// statusFor picks an HTTP status for a classified error. An unknown order
// is 404, an already matched or cancelled order is 409, no liquidity is
// 422, any engine-level error (unknown or duplicate market) is 404, and
// every other book error (invalid side, price or quantity, quantity below
// filled) is 400.
func statusFor(domain facade.ErrorDomain, err error) int {
	switch {
	case errors.Is(err, book.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, book.ErrOrderAlreadyMatched), errors.Is(err, book.ErrOrderAlreadyCancelled):
		return http.StatusConflict
	case errors.Is(err, book.ErrNoLiquidity):
		return http.StatusUnprocessableEntity
	case domain == facade.DomainEngine:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

type Handlers struct {
	facade  *facade.Facade
	metrics *metrics.Registry
}

// NewHandlers builds the handler set. reg may be nil — metrics recording
// is skipped in that case, which keeps handler tests free of a
// prometheus dependency.
func NewHandlers(f *facade.Facade, reg *metrics.Registry) *Handlers {
	return &Handlers{facade: f, metrics: reg}
}

func (h *Handlers) CreateMarket(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	pair := req.TradingPair.toDomain()
	domain, err := h.facade.CreateMarket(pair)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	c.JSON(http.StatusCreated, createMarketResponse{Created: true, TradingPair: fromDomainPair(pair)})
}

func (h *Handlers) ListMarkets(c *gin.Context) {
	pairs := h.facade.ListMarkets()
	dtos := make([]tradingPairDTO, 0, len(pairs))
	for _, p := range pairs {
		dtos = append(dtos, fromDomainPair(p))
	}
	c.JSON(http.StatusOK, listMarketsResponse{Markets: dtos})
}

func (h *Handlers) AddLimitOrder(c *gin.Context) {
	var req addLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	price, err := common.ParseDecimal(req.Order.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid price: " + err.Error()})
		return
	}
	qty, err := common.ParseDecimal(req.Order.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid quantity: " + err.Error()})
		return
	}

	order, domain, err := h.facade.AddLimitOrder(req.TradingPair.toDomain(), book.LimitOrderRequest{
		Side:     req.Order.Side,
		Price:    price,
		Quantity: qty,
		UserID:   req.Order.UserID,
	})
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	if h.metrics != nil {
		pairLabel := req.TradingPair.Base + "/" + req.TradingPair.Quote
		h.metrics.OrdersPlaced.WithLabelValues(pairLabel, string(order.Side)).Inc()
		if !order.QuantityFilled.IsZero() {
			h.metrics.OrdersMatched.WithLabelValues(pairLabel).Inc()
		}
		h.refreshOpenOrders(req.TradingPair.toDomain(), pairLabel)
	}
	c.JSON(http.StatusCreated, toOpenOrderResponse(order))
}

func (h *Handlers) AddMarketOrder(c *gin.Context) {
	var req addMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	qty, err := common.ParseDecimal(req.Order.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid quantity: " + err.Error()})
		return
	}

	res, domain, err := h.facade.AddMarketOrder(req.TradingPair.toDomain(), book.MarketOrderRequest{
		Side:     req.Order.Side,
		Quantity: qty,
		UserID:   req.Order.UserID,
	})
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}

	resp := marketOrderResponse{Success: res.Success}
	if res.Success {
		avg := res.AveragePrice.String()
		filled := res.FilledQuantity.String()
		resp.AveragePrice = &avg
		resp.FilledQuantity = &filled
	}
	if h.metrics != nil {
		pair := req.TradingPair.toDomain()
		h.refreshOpenOrders(pair, req.TradingPair.Base+"/"+req.TradingPair.Quote)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) Depth(c *gin.Context) {
	pair := tradingPairDTO{Base: c.Param("base"), Quote: c.Param("quote")}.toDomain()

	depth, domain, err := h.facade.Depth(pair)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	c.JSON(http.StatusOK, depthResponse{
		Bids: toDepthLevels(depth.Bids),
		Asks: toDepthLevels(depth.Asks),
	})
}

func (h *Handlers) MidPrice(c *gin.Context) {
	pair := tradingPairDTO{Base: c.Param("base"), Quote: c.Param("quote")}.toDomain()

	mid, ok, domain, err := h.facade.MidPrice(pair)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	resp := midPriceResponse{}
	if ok {
		s := mid.String()
		resp.Price = &s
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, domain, err := h.facade.Cancel(req.TradingPair.toDomain(), req.OrderID)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	if h.metrics != nil {
		pairLabel := req.TradingPair.Base + "/" + req.TradingPair.Quote
		h.metrics.OrdersCanceled.WithLabelValues(pairLabel).Inc()
		h.refreshOpenOrders(req.TradingPair.toDomain(), pairLabel)
	}
	c.JSON(http.StatusOK, cancelResponse{
		Price:          res.Price.String(),
		Quantity:       res.Quantity.String(),
		QuantityFilled: res.QuantityFilled.String(),
		OrderID:        res.OrderID,
	})
}

func (h *Handlers) Modify(c *gin.Context) {
	var req modifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	modifyReq := book.ModifyOrderRequest{OrderID: req.OrderID}
	if req.Price != nil {
		price, err := common.ParseDecimal(*req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid price: " + err.Error()})
			return
		}
		modifyReq.NewPrice = &price
	}
	if req.Quantity != nil {
		qty, err := common.ParseDecimal(*req.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid quantity: " + err.Error()})
			return
		}
		modifyReq.NewQuantity = &qty
	}

	res, domain, err := h.facade.Modify(req.TradingPair.toDomain(), modifyReq)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	c.JSON(http.StatusOK, modifyResponse{
		Price:    res.Price.String(),
		Quantity: res.Quantity.String(),
		OrderID:  req.OrderID,
	})
}

func (h *Handlers) GetOrder(c *gin.Context) {
	var req getOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, domain, err := h.facade.GetOrder(req.TradingPair.toDomain(), req.OrderID)
	if err != nil {
		writeError(c, statusFor(domain, err), domain, err)
		return
	}
	c.JSON(http.StatusOK, toOpenOrderResponse(order))
}

// refreshOpenOrders recomputes the resting-order gauge for pair from a
// fresh depth snapshot, rather than tracking increments/decrements by
// hand across AddLimitOrder/AddMarketOrder/Cancel — a snapshot can never
// drift from the book the way a hand-kept delta could.
func (h *Handlers) refreshOpenOrders(pair common.TradingPair, pairLabel string) {
	depth, _, err := h.facade.Depth(pair)
	if err != nil {
		return
	}
	count := 0
	for _, lvl := range depth.Bids {
		count += lvl.OrderCount
	}
	for _, lvl := range depth.Asks {
		count += lvl.OrderCount
	}
	h.metrics.OpenOrders.WithLabelValues(pairLabel).Set(float64(count))
}

func toOpenOrderResponse(o *book.OpenOrder) openOrderResponse {
	return openOrderResponse{
		OrderID:        o.OrderID,
		UserID:         o.UserID,
		Side:           o.Side,
		Price:          o.Price.String(),
		Quantity:       o.Quantity.String(),
		QuantityFilled: o.QuantityFilled.String(),
		Cancelled:      o.Cancelled,
	}
}

func toDepthLevels(levels []book.DepthLevel) []depthLevelDTO {
	out := make([]depthLevelDTO, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, depthLevelDTO{
			Price:      lvl.Price.String(),
			Quantity:   lvl.AggregateRemainingQty.String(),
			OrderCount: lvl.OrderCount,
		})
	}
	return out
}
