// Package dashboard aggregates call events for the carrier sales dashboard.
package dashboard

import (
	"context"

	"github.com/PratikDhanave/carrier-sales-service/internal/store"
)

// Fixed chart categories. Values outside these sets are not charted.
var (
	OutcomeCategories   = []string{"Success", "No MC", "Unsuccessful"}
	SentimentCategories = []string{"Negative", "Neutral", "Positive"}
)

// Source is the read side of store.EventStore used by Summarize.
type Source interface {
	Count(ctx context.Context) (int64, error)
	GroupCount(ctx context.Context, field store.Field, categories []string) (map[string]int64, error)
	NegotiatedCount(ctx context.Context) (int64, error)
	Average(ctx context.Context, field store.Field) (float64, error)
}

// Metrics is the GET /dashboard/metrics payload.
type Metrics struct {
	Total           int64            `json:"total_calls"`
	Outcomes        map[string]int64 `json:"outcomes"`
	Sentiments      map[string]int64 `json:"sentiments"`
	NegotiationRate float64          `json:"negotiation_rate"`
	AvgBasePrice    float64          `json:"avg_base_price"`
	AvgFinalPrice   float64          `json:"avg_final_price"`
}

// Summarize computes the dashboard metrics. Histogram totals may be lower
// than Total because unknown categories are dropped.
func Summarize(ctx context.Context, src Source) (Metrics, error) {
	var m Metrics
	var err error

	if m.Total, err = src.Count(ctx); err != nil {
		return Metrics{}, err
	}
	if m.Outcomes, err = src.GroupCount(ctx, store.FieldOutcome, OutcomeCategories); err != nil {
		return Metrics{}, err
	}
	if m.Sentiments, err = src.GroupCount(ctx, store.FieldSentiment, SentimentCategories); err != nil {
		return Metrics{}, err
	}

	negotiated, err := src.NegotiatedCount(ctx)
	if err != nil {
		return Metrics{}, err
	}
	if m.Total > 0 {
		m.NegotiationRate = float64(negotiated) / float64(m.Total)
	}

	if m.AvgBasePrice, err = src.Average(ctx, store.FieldBasePrice); err != nil {
		return Metrics{}, err
	}
	if m.AvgFinalPrice, err = src.Average(ctx, store.FieldFinalPrice); err != nil {
		return Metrics{}, err
	}

	m.Outcomes = zeroFill(m.Outcomes, OutcomeCategories)
	m.Sentiments = zeroFill(m.Sentiments, SentimentCategories)
	return m, nil
}

// zeroFill adds every missing category with a zero count.
func zeroFill(counts map[string]int64, categories []string) map[string]int64 {
	if counts == nil {
		counts = make(map[string]int64, len(categories))
	}
	for _, c := range categories {
		if _, ok := counts[c]; !ok {
			counts[c] = 0
		}
	}
	return counts
}
