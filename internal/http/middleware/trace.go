package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceHeader = "X-Trace-ID"
	ctxTraceID  = "traceID"
)

// TraceID reuses an incoming X-Trace-ID or mints one, and echoes it on the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxTraceID, id)
		c.Header(TraceHeader, id)
		c.Next()
	}
}

func TraceIDFrom(c *gin.Context) string {
	return c.GetString(ctxTraceID)
}
