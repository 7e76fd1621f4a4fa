package models

import "time"

// Load is a freight shipment available for booking.
type Load struct {
	LoadID           string    `json:"load_id"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	PickupDatetime   time.Time `json:"pickup_datetime"`
	DeliveryDatetime time.Time `json:"delivery_datetime"`
	EquipmentType    string    `json:"equipment_type"`
	LoadboardRate    int       `json:"loadboard_rate"`
	Notes            string    `json:"notes"`
	Weight           int       `json:"weight"`
	CommodityType    string    `json:"commodity_type"`
	NumOfPieces      int       `json:"num_of_pieces"`
	Miles            int       `json:"miles"`
	Dimensions       string    `json:"dimensions"`
}
