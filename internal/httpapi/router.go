package httpapi

import (
	"fenrir/internal/facade"
	"fenrir/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine exposing every operation from spec §6's
// endpoint table over JSON. It is a thin translation layer: decode,
// call the facade, encode — no business logic lives here.
func NewRouter(f *facade.Facade, reg *metrics.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), limitRequestBody(), correlationID(), requestLog())

	h := NewHandlers(f, reg)

	r.POST("/markets", h.CreateMarket)
	r.GET("/markets", h.ListMarkets)

	r.POST("/orders/limit", h.AddLimitOrder)
	r.POST("/orders/market", h.AddMarketOrder)
	r.GET("/markets/:base/:quote/depth", h.Depth)
	r.GET("/markets/:base/:quote/mid-price", h.MidPrice)
	r.POST("/orders/cancel", h.Cancel)
	r.POST("/orders/modify", h.Modify)
	r.POST("/orders/get", h.GetOrder)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
