package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const correlationIDHeader = "X-Correlation-Id"

// maxRequestBodyBytes bounds a single JSON request body. The teacher's
// binary protocol framed every message to at most MAX_RECV_SIZE (4KiB,
// internal/net/server.go); JSON is less compact, so the limit is kept
// generous but still present — a request can't be unbounded.
const maxRequestBodyBytes = 64 * 1024

// limitRequestBody rejects oversized bodies before they reach gin's JSON
// binding, continuing the teacher's fixed receive-buffer discipline.
func limitRequestBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodyBytes)
		c.Next()
	}
}

// correlationID tags every request with a uuid, continuing the teacher's
// practice of stamping each message with an identity (internal/net used
// uuid.New() for session/message ids; here it's request identity since
// there's no long-lived binary session anymore). The id is echoed back
// on the response header and attached to every log line for the request.
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("correlation_id", id)
		c.Header(correlationIDHeader, id)
		c.Next()
	}
}

// requestLog logs one structured line per request at completion,
// mirroring the Info/Error boundary logging internal/net/server.go does
// around connection and message handling — nothing logged on the hot
// matching path itself.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		id, _ := c.Get("correlation_id")
		status := c.Writer.Status()
		ev := log.Info()
		if status >= 500 {
			ev = log.Error()
		} else if status >= 400 {
			ev = log.Warn()
		}
		ev.
			Str("correlation_id", fmtID(id)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}

func fmtID(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
