package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/carrier-sales-service/internal/observability/logger"
	"github.com/PratikDhanave/carrier-sales-service/internal/observability/metrics"
)

// TokenMiddleware guards ingestion with a shared secret sent either as
// "Authorization: Bearer <token>" or "X-API-Key: <token>".
// An empty secret disables the check entirely.
func TokenMiddleware(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token := RequestToken(c.Request)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			metrics.RecordAuthFailure()
			log.Warn("ingest token rejected",
				zap.String("request_id", logger.RequestID(c.Request.Context())),
				zap.String("token", logger.MaskAPIKey(token)),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// RequestToken extracts the presented token. A bearer Authorization header
// wins; X-API-Key is used when it is absent or empty.
func RequestToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if token == "Bearer" {
		token = ""
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
