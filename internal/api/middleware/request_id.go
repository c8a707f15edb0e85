package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mirageos/backend/internal/shared/id"
)

// HeaderRequestID carries the generated request id back to the caller.
const HeaderRequestID = "X-Request-ID"

// RequestID attaches a ULID to each request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := string(id.NewRequestID())
		c.Set("request_id", rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
