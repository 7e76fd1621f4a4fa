package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/carrier-sales-service/internal/dashboard"
	"github.com/PratikDhanave/carrier-sales-service/internal/models"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/logger"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/metrics"
	"github.com/PratikDhanave/carrier-sales-service/internal/store"
)

// maxPayloadBytes bounds a single call event body.
const maxPayloadBytes = 1 << 20

// RegisterEventRoutes registers the ingestion and listing endpoints.
//
// POST /data/outcome
// - Guarded by ingestAuth (shared token)
// - Mistyped fields are coerced, never rejected
// - Responds after the insert transaction commits
//
// GET /data/events?limit=&offset=
// - Newest first
func RegisterEventRoutes(r gin.IRoutes, st store.EventStore, ingestAuth gin.HandlerFunc, log *zap.Logger) {
	r.POST("/data/outcome", ingestAuth, func(c *gin.Context) {
		var req models.CallEventRequest
		dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
		// Keep numbers as json.Number so large integers are not routed through float64.
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		ctx := c.Request.Context()
		rec, err := st.Insert(ctx, req.Normalize())
		if err != nil {
			log.Error("insert call event failed",
				zap.Error(err),
				zap.String("request_id", logger.RequestID(ctx)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert failed"})
			return
		}
		metrics.RecordCallEvent(outcomeLabel(rec.CallOutcome))

		stored, err := st.Count(ctx)
		if err != nil {
			log.Error("count call events failed",
				zap.Error(err),
				zap.String("request_id", logger.RequestID(ctx)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.OutcomeResponse{
			OK:     true,
			ID:     rec.ID,
			Stored: stored,
		})
	})

	r.GET("/data/events", func(c *gin.Context) {
		limit, ok := queryInt(c, "limit", store.DefaultListLimit, 1)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		offset, ok := queryInt(c, "offset", 0, 0)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}

		ctx := c.Request.Context()
		rows, err := st.List(ctx, min(limit, store.MaxListLimit), offset)
		if err != nil {
			log.Error("list call events failed",
				zap.Error(err),
				zap.String("request_id", logger.RequestID(ctx)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, models.DataResponse[models.EventRecord]{Data: rows})
	})
}

// queryInt parses an optional integer query parameter no smaller than floor.
func queryInt(c *gin.Context, key string, def, floor int) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < floor {
		return 0, false
	}
	return n, true
}

// outcomeLabel keeps the metric label set bounded to the charted outcomes.
func outcomeLabel(outcome *string) string {
	if outcome == nil {
		return "none"
	}
	if slices.Contains(dashboard.OutcomeCategories, *outcome) {
		return *outcome
	}
	return "other"
}
