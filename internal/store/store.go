package store

import (
	"context"
	"errors"
	"strings"

	"github.com/PratikDhanave/carrier-sales-service/internal/models"
	"github.com/PratikDhanave/carrier-sales-service/internal/normalize"
)

const (
	// DefaultListLimit applies when the caller does not ask for a page size.
	DefaultListLimit = 100
	// MaxListLimit caps a single page of List.
	MaxListLimit = 1000
)

// ErrUnknownField is returned when a query names a field it cannot aggregate.
var ErrUnknownField = errors.New("store: unknown field")

// Field names an aggregatable column of call_events.
type Field string

const (
	FieldOutcome      Field = "call_outcome"
	FieldSentiment    Field = "carrier_sentiment"
	FieldBasePrice    Field = "base_price"
	FieldFinalPrice   Field = "final_price"
	FieldCallDuration Field = "call_duration"
)

func (f Field) categorical() bool {
	return f == FieldOutcome || f == FieldSentiment
}

func (f Field) numeric() bool {
	return f == FieldBasePrice || f == FieldFinalPrice || f == FieldCallDuration
}

// EventStore is append-only persistence for call outcome events.
type EventStore interface {
	// Insert assigns the next id and the receipt time and returns the stored record.
	Insert(ctx context.Context, rec models.EventRecord) (models.EventRecord, error)
	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]models.EventRecord, error)
	Count(ctx context.Context) (int64, error)
	// GroupCount returns a histogram of field over a fixed category set.
	GroupCount(ctx context.Context, field Field, categories []string) (map[string]int64, error)
	// NegotiatedCount counts records whose stored flag is true, deriving the
	// flag from base_price <> final_price when it was never set.
	NegotiatedCount(ctx context.Context) (int64, error)
	// Average is the mean of the non-null values of field, 0 when there are none.
	Average(ctx context.Context, field Field) (float64, error)
	Ping(ctx context.Context) error
	Close()
}

// Group is one row of a GROUP BY over a categorical column. Value is nil for NULL.
type Group struct {
	Value *string
	Count int64
}

// FoldCategories maps raw grouped counts onto categories.
//
// Every category is present in the result. Values are trimmed (sentiments are
// also capitalized) and counts that land on the same category are summed.
// NULL, blank and unknown values are dropped, so the histogram may total less
// than Count.
func FoldCategories(field Field, groups []Group, categories []string) map[string]int64 {
	out := make(map[string]int64, len(categories))
	for _, c := range categories {
		out[c] = 0
	}
	for _, g := range groups {
		if g.Value == nil {
			continue
		}
		key := strings.TrimSpace(*g.Value)
		if key == "" {
			continue
		}
		if field == FieldSentiment {
			key = normalize.Capitalize(key)
		}
		if _, ok := out[key]; ok {
			out[key] += g.Count
		}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
