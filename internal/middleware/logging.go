package middleware

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relaygate/gateway/internal/logger"
	"github.com/relaygate/gateway/internal/metrics"
	"github.com/relaygate/gateway/internal/redact"
)

// RequestLogging logs one structured line per response and emits
// gateway.request.count / gateway.request.duration_ms, the same
// defer-until-response-is-written shape as the teacher's getMiddleware, with
// the billing/event-publishing side of that handler dropped entirely (this
// gateway tracks no cost or usage ledger) and secret scrubbing applied via
// redact before anything reaches the logger.
func RequestLogging(log logger.Logger, m *metrics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		dur := time.Since(start)
		status := c.Writer.Status()

		m.Timing("gateway.request.duration_ms", dur, []string{
			"path:" + c.FullPath(),
			"method:" + c.Request.Method,
		}, 1)
		m.Incr("gateway.request.count", []string{
			"status:" + strconv.Itoa(status),
		}, 1)

		fields := redact.Fields(
			zap.String(CorrelationIDKey, CorrelationIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Int64("latency_ms", dur.Milliseconds()),
			zap.String("latency", humanize.RelTime(start, time.Now(), "", "")),
			zap.String("response_size", humanize.Bytes(uint64(responseSize(c)))),
		)

		if status >= 500 {
			log.Errorw("request completed", flatten(fields)...)
			return
		}
		log.Infow("request completed", flatten(fields)...)
	}
}

func responseSize(c *gin.Context) int64 {
	size := c.Writer.Size()
	if size < 0 {
		return 0
	}
	return int64(size)
}

func flatten(fields []zap.Field) []interface{} {
	out := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, fieldValue(f))
	}
	return out
}

func fieldValue(f zap.Field) interface{} {
	switch f.Type {
	case zapcore.StringType:
		return f.String
	default:
		return f.Integer
	}
}
