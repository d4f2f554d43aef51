// Package middleware holds the gin.HandlerFunc chain every namespace shares:
// correlation IDs, security headers, CORS, bearer auth, and response
// logging. Grounded on the teacher's server/web/proxy/middleware.go, which
// bundled all of these concerns (plus billing/event-publishing this gateway
// doesn't do) into one handler; here each concern is its own small
// middleware, composed in the router, so every constructor takes its
// dependencies as explicit arguments instead of reaching into a shared
// struct.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/relaygate/gateway/internal/correlation"
)

// CorrelationIDKey is the gin context key the correlation ID is stored
// under, and also the key used in structured log fields.
const CorrelationIDKey = "correlation_id"

const (
	headerCorrelationID       = "X-Correlation-ID"
	headerCorrelationIDLegacy = "X-Correlation-Id"
)

// CorrelationID assigns a correlation ID to every request: the incoming
// X-Correlation-ID (or X-Correlation-Id) header value if present, otherwise
// a freshly generated UUID. The ID is echoed back on the response under
// both header castings so callers on either convention can find it.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(headerCorrelationID)
		if len(cid) == 0 {
			cid = c.GetHeader(headerCorrelationIDLegacy)
		}
		if len(cid) == 0 {
			cid = uuid.NewString()
		}

		c.Set(CorrelationIDKey, cid)
		// Header().Set canonicalizes both names to X-Correlation-Id, so the
		// upper-case form is written under its literal key instead.
		c.Writer.Header()[headerCorrelationID] = []string{cid}
		c.Header(headerCorrelationIDLegacy, cid)
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), cid))
		c.Next()
	}
}

// CorrelationIDFromContext reads back the ID CorrelationID assigned.
func CorrelationIDFromContext(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
