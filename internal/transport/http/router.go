package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/wc_order_export/pkg/httpx"
)

// NewRouter — маршруты API выгрузки. serviceName включает otelgin (пустая строка — без трейсинга).
func NewRouter(h *Handler, auth AuthConfig, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/orders", CapabilityGate(auth))
	api.POST("/preview", h.preview)
	api.POST("/export", h.export)
	api.GET("/download", h.download)

	return r
}
