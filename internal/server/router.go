// Package server wires the HTTP API: routing, middleware, and the JSON
// contract over the bill service.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitsies/splitsies/internal/metrics"
	"github.com/splitsies/splitsies/internal/ratelimit"
	"github.com/splitsies/splitsies/internal/service"
)

// New builds the gin engine with all routes and middleware attached.
func New(svc *service.BillService, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := newHandler(svc)
	limiter := ratelimit.New()

	api := r.Group("/api")
	{
		// The parse endpoint fronts a metered vision API, so it gets a
		// per-IP budget the rest of the API does not need.
		api.POST("/parse-bill", rateLimitMiddleware(limiter, m), h.ParseBill)

		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.PUT("/sessions/:id", h.UpdateSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.POST("/sessions/:id/receipt", h.ApplyReceipt)
		api.POST("/sessions/:id/finalize", h.Finalize)
		api.GET("/sessions/:id/summary", h.Summary)

		api.POST("/sessions/:id/items", h.AddItem)
		api.PUT("/sessions/:id/items/:itemID", h.UpdateItem)
		api.DELETE("/sessions/:id/items/:itemID", h.DeleteItem)
		api.PUT("/sessions/:id/items/:itemID/assignees", h.AssignItem)

		api.POST("/sessions/:id/participants", h.AddParticipant)
		api.DELETE("/sessions/:id/participants/:participantID", h.RemoveParticipant)
	}

	return r
}
