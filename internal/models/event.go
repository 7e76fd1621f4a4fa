package models

import (
	"strconv"
	"time"

	"github.com/PratikDhanave/carrier-sales-service/internal/normalize"
)

// CallEventRequest is the POST /data/outcome payload.
// Fields are untyped because the calling agent is inconsistent about formatting;
// Normalize turns them into an EventRecord.
type CallEventRequest struct {
	CallDate         any `json:"call_date"`
	BasePrice        any `json:"base_price"`
	FinalPrice       any `json:"final_price"`
	LoadOrigin       any `json:"load_origin"`
	LoadDestination  any `json:"load_destination"`
	CallOutcome      any `json:"call_outcome"`
	CallDuration     any `json:"call_duration"`
	IsNegotiated     any `json:"is_negotiated"`
	Sentiment        any `json:"sentiment"`
	CarrierSentiment any `json:"carrier_sentiment"`
	MCNumber         any `json:"mc_number"`
	CarrierName      any `json:"carrier_name"`
}

// EventRecord is a stored call outcome. ID and ServerReceivedAt are assigned by the store.
type EventRecord struct {
	ID               int64     `json:"id"`
	ServerReceivedAt time.Time `json:"server_received_at"`
	CallDate         *string   `json:"call_date"`
	BasePrice        *int64    `json:"base_price"`
	FinalPrice       *int64    `json:"final_price"`
	LoadOrigin       *string   `json:"load_origin"`
	LoadDestination  *string   `json:"load_destination"`
	CallOutcome      *string   `json:"call_outcome"`
	CallDuration     *int64    `json:"call_duration"`
	IsNegotiated     *bool     `json:"is_negotiated"`
	CarrierSentiment *string   `json:"carrier_sentiment"`
	MCNumber         *string   `json:"mc_number"`
	CarrierName      *string   `json:"carrier_name"`
}

// Normalize coerces the raw payload into a record ready for insertion.
// "sentiment" takes precedence over "carrier_sentiment" when both are sent.
func (r CallEventRequest) Normalize() EventRecord {
	base := normalize.Int(r.BasePrice)
	final := normalize.Int(r.FinalPrice)

	sentiment := normalize.Text(r.Sentiment)
	if sentiment == nil {
		sentiment = normalize.Text(r.CarrierSentiment)
	}

	var mc *string
	if n := normalize.Int(r.MCNumber); n != nil {
		s := strconv.FormatInt(*n, 10)
		mc = &s
	}

	return EventRecord{
		CallDate:         normalize.Text(r.CallDate),
		BasePrice:        base,
		FinalPrice:       final,
		LoadOrigin:       normalize.Text(r.LoadOrigin),
		LoadDestination:  normalize.Text(r.LoadDestination),
		CallOutcome:      normalize.Text(r.CallOutcome),
		CallDuration:     normalize.Int(r.CallDuration),
		IsNegotiated:     normalize.InferNegotiated(base, final, normalize.Bool(r.IsNegotiated)),
		CarrierSentiment: sentiment,
		MCNumber:         mc,
		CarrierName:      normalize.Text(r.CarrierName),
	}
}

// OutcomeResponse is returned by POST /data/outcome.
// Stored is the total number of records after the insert.
type OutcomeResponse struct {
	OK     bool  `json:"ok"`
	ID     int64 `json:"id"`
	Stored int64 `json:"stored"`
}

// DataResponse wraps list payloads as {"data": [...]}.
type DataResponse[T any] struct {
	Data []T `json:"data"`
}
