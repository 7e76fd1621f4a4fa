// Package catalog serves the static list of loads offered to carriers.
package catalog

import (
	"strings"
	"time"

	"github.com/PratikDhanave/carrier-sales-service/internal/models"
)

// Filter narrows a search. Zero-valued fields do not filter.
type Filter struct {
	Origin        string
	Destination   string
	EquipmentType string
	MinRate       *int
}

// Catalog is a read-only set of loads kept in insertion order.
type Catalog struct {
	loads []models.Load
}

// New returns a catalog over a copy of loads.
func New(loads []models.Load) *Catalog {
	return &Catalog{loads: append([]models.Load(nil), loads...)}
}

// Default returns the catalog seeded at startup.
func Default() *Catalog {
	return New(seedLoads)
}

// Search returns the loads matching every set field of f, in catalog order.
// Origin and destination match as case-insensitive substrings, equipment
// type as a case-insensitive exact value and MinRate inclusively.
func (c *Catalog) Search(f Filter) []models.Load {
	origin := strings.ToLower(strings.TrimSpace(f.Origin))
	destination := strings.ToLower(strings.TrimSpace(f.Destination))
	equipment := strings.TrimSpace(f.EquipmentType)

	out := make([]models.Load, 0, len(c.loads))
	for _, l := range c.loads {
		if origin != "" && !strings.Contains(strings.ToLower(l.Origin), origin) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(l.Destination), destination) {
			continue
		}
		if equipment != "" && !strings.EqualFold(l.EquipmentType, equipment) {
			continue
		}
		if f.MinRate != nil && l.LoadboardRate < *f.MinRate {
			continue
		}
		out = append(out, l)
	}
	return out
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

var seedLoads = []models.Load{
	{
		LoadID: "L-1001", Origin: "Chicago, IL", Destination: "Dallas, TX",
		PickupDatetime: at("2025-09-23T08:00:00Z"), DeliveryDatetime: at("2025-09-24T18:00:00Z"),
		EquipmentType: "Dry Van", LoadboardRate: 1800, Notes: "No pallet exchange",
		Weight: 42000, CommodityType: "Consumer electronics", NumOfPieces: 22, Miles: 920, Dimensions: "48x40x60",
	},
	{
		LoadID: "L-1002", Origin: "Reno, NV", Destination: "Los Angeles, CA",
		PickupDatetime: at("2025-09-23T10:00:00Z"), DeliveryDatetime: at("2025-09-23T20:00:00Z"),
		EquipmentType: "Reefer", LoadboardRate: 1400, Notes: "Temp at 36°F",
		Weight: 38000, CommodityType: "Fresh produce", NumOfPieces: 18, Miles: 480, Dimensions: "48x40x55",
	},
	{
		LoadID: "L-1003", Origin: "Atlanta, GA", Destination: "Miami, FL",
		PickupDatetime: at("2025-09-24T07:00:00Z"), DeliveryDatetime: at("2025-09-24T19:00:00Z"),
		EquipmentType: "Flatbed", LoadboardRate: 2000, Notes: "Tarp required",
		Weight: 46000, CommodityType: "Steel coils", NumOfPieces: 10, Miles: 660, Dimensions: "60x48x50",
	},
	{
		LoadID: "L-1004", Origin: "Denver, CO", Destination: "Kansas City, MO",
		PickupDatetime: at("2025-09-25T09:00:00Z"), DeliveryDatetime: at("2025-09-25T21:00:00Z"),
		EquipmentType: "Dry Van", LoadboardRate: 1300, Notes: "Drop & hook",
		Weight: 35000, CommodityType: "Packaged food", NumOfPieces: 25, Miles: 600, Dimensions: "40x48x55",
	},
	{
		LoadID: "L-1005", Origin: "Seattle, WA", Destination: "Portland, OR",
		PickupDatetime: at("2025-09-22T06:00:00Z"), DeliveryDatetime: at("2025-09-22T14:00:00Z"),
		EquipmentType: "Reefer", LoadboardRate: 900, Notes: "Expedited delivery",
		Weight: 20000, CommodityType: "Frozen seafood", NumOfPieces: 12, Miles: 180, Dimensions: "48x40x40",
	},
}
