package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/carrier-sales-service/internal/dashboard"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/logger"
)

// RegisterDashboardRoutes registers the dashboard page and its data feed.
//
// GET /dashboard/metrics - aggregate metrics as JSON
// GET /dashboard         - HTML page that charts /dashboard/metrics
func RegisterDashboardRoutes(r gin.IRoutes, src dashboard.Source, page *dashboard.Page, log *zap.Logger) {
	r.GET("/dashboard/metrics", func(c *gin.Context) {
		ctx := c.Request.Context()
		m, err := dashboard.Summarize(ctx, src)
		if err != nil {
			log.Error("summarize call events failed",
				zap.Error(err),
				zap.String("request_id", logger.RequestID(ctx)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, m)
	})

	r.GET("/dashboard", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page.HTML())
	})
}
