package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/carrier-sales-service/internal/catalog"
	"github.com/PratikDhanave/carrier-sales-service/internal/models"
)

// RegisterLoadRoutes registers the load search endpoint.
//
// GET /v1/loads/search?origin=&destination=&equipment_type=&min_rate=
// All parameters are optional and combine with AND.
func RegisterLoadRoutes(r gin.IRoutes, cat *catalog.Catalog) {
	r.GET("/v1/loads/search", func(c *gin.Context) {
		f := catalog.Filter{
			Origin:        c.Query("origin"),
			Destination:   c.Query("destination"),
			EquipmentType: c.Query("equipment_type"),
		}
		if raw := c.Query("min_rate"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "min_rate must be an integer"})
				return
			}
			f.MinRate = &n
		}

		c.JSON(http.StatusOK, models.DataResponse[models.Load]{Data: cat.Search(f)})
	})
}
