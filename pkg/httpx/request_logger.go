package httpx

import (
	"time"

	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/gin-gonic/gin"
)

// RequestLogger — middleware для логирования HTTP-запросов.
// request_id, subject и trace берутся логгером из контекста запроса.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// пробы /metrics и /ping — только на debug
		switch c.FullPath() {
		case "/metrics", "/ping":
			log.Debugf(c.Request.Context(), "probe path=%s status=%d", c.FullPath(), c.Writer.Status())
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s file=%s status=%d ip=%s duration=%s size=%d errors=%d",
			c.Request.Method,
			path,
			c.Query("file"),
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
			len(c.Errors),
		)
	}
}
