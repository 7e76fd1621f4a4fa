package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PratikDhanave/carrier-sales-service/internal/models"
)

// MemoryStore keeps events in process memory. Nothing survives a restart,
// so it is only meant for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.EventRecord
	nextID  int64
	now     func() time.Time
}

// NewMemoryStore creates an empty store. now defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now}
}

func (m *MemoryStore) Insert(ctx context.Context, rec models.EventRecord) (models.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.EventRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	rec = cloneRecord(rec)
	rec.ID = m.nextID
	rec.ServerReceivedAt = m.now().UTC()
	m.records = append(m.records, rec)

	return cloneRecord(rec), nil
}

func (m *MemoryStore) List(ctx context.Context, limit, offset int) ([]models.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.EventRecord, 0, limit)
	for i := len(m.records) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneRecord(m.records[i]))
	}
	return out, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

func (m *MemoryStore) GroupCount(ctx context.Context, field Field, categories []string) (map[string]int64, error) {
	if !field.categorical() {
		return nil, fmt.Errorf("group count %q: %w", field, ErrUnknownField)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	counts := map[string]int64{}
	var nulls int64
	for _, r := range m.records {
		v := r.CallOutcome
		if field == FieldSentiment {
			v = r.CarrierSentiment
		}
		if v == nil {
			nulls++
			continue
		}
		counts[*v]++
	}
	m.mu.RUnlock()

	groups := make([]Group, 0, len(counts)+1)
	for k, n := range counts {
		groups = append(groups, Group{Value: &k, Count: n})
	}
	if nulls > 0 {
		groups = append(groups, Group{Count: nulls})
	}
	return FoldCategories(field, groups, categories), nil
}

func (m *MemoryStore) NegotiatedCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.records {
		switch {
		case r.IsNegotiated != nil:
			if *r.IsNegotiated {
				n++
			}
		case r.BasePrice != nil && r.FinalPrice != nil && *r.BasePrice != *r.FinalPrice:
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Average(ctx context.Context, field Field) (float64, error) {
	if !field.numeric() {
		return 0, fmt.Errorf("average %q: %w", field, ErrUnknownField)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum float64
	var n int
	for _, r := range m.records {
		var v *int64
		switch field {
		case FieldBasePrice:
			v = r.BasePrice
		case FieldFinalPrice:
			v = r.FinalPrice
		case FieldCallDuration:
			v = r.CallDuration
		}
		if v != nil {
			sum += float64(*v)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() {}

func cloneRecord(r models.EventRecord) models.EventRecord {
	r.CallDate = clonePtr(r.CallDate)
	r.BasePrice = clonePtr(r.BasePrice)
	r.FinalPrice = clonePtr(r.FinalPrice)
	r.LoadOrigin = clonePtr(r.LoadOrigin)
	r.LoadDestination = clonePtr(r.LoadDestination)
	r.CallOutcome = clonePtr(r.CallOutcome)
	r.CallDuration = clonePtr(r.CallDuration)
	r.IsNegotiated = clonePtr(r.IsNegotiated)
	r.CarrierSentiment = clonePtr(r.CarrierSentiment)
	r.MCNumber = clonePtr(r.MCNumber)
	r.CarrierName = clonePtr(r.CarrierName)
	return r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ EventStore = (*MemoryStore)(nil)
