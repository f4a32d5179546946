package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohammedadiga/newRoodxServer/internal/utils/metrics"
)

// MetricsMiddleware records request counts, statuses and latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsTotal.Inc()
		start := time.Now()

		c.Next()

		metrics.ResponsesTotal.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).
			Observe(time.Since(start).Seconds())
	}
}
