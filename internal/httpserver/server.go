package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/carrier-sales-service/internal/auth"
	"github.com/PratikDhanave/carrier-sales-service/internal/catalog"
	"github.com/PratikDhanave/carrier-sales-service/internal/config"
	"github.com/PratikDhanave/carrier-sales-service/internal/dashboard"
	"github.com/PratikDhanave/carrier-sales-service/internal/handlers"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/logger"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/metrics"
	"github.com/PratikDhanave/carrier-sales-service/internal/store"
)

// Deps are the collaborators handed to the router.
type Deps struct {
	Store   store.EventStore
	Catalog *catalog.Catalog
	Page    *dashboard.Page
	Log     *zap.Logger
}

// NewRouter wires public endpoints and the token-guarded ingestion API.
// Public: /health, /ready, /metrics, /v1/loads/search, /data/events, /dashboard*
// Token: POST /data/outcome (when DASH_TOKEN is set)
func NewRouter(cfg config.Config, d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(metrics.GinMiddleware())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers.RegisterLoadRoutes(r, d.Catalog)
	handlers.RegisterEventRoutes(r, d.Store, auth.TokenMiddleware(cfg.IngestToken, log), log)
	handlers.RegisterDashboardRoutes(r, d.Store, d.Page, log)

	return r
}
