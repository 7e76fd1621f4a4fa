package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/carrier-sales-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

const eventColumns = `id, server_received_at, call_date, base_price, final_price, load_origin,
	load_destination, call_outcome, call_duration, is_negotiated, carrier_sentiment,
	mc_number, carrier_name`

// PostgresStore is the durable persistence layer for call events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// Insert persists rec in its own transaction. The id comes from the table's
// sequence and the receipt time from the database clock.
func (p *PostgresStore) Insert(ctx context.Context, rec models.EventRecord) (models.EventRecord, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.EventRecord{}, fmt.Errorf("begin insert: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO call_events(
			call_date, base_price, final_price, load_origin, load_destination,
			call_outcome, call_duration, is_negotiated, carrier_sentiment,
			mc_number, carrier_name
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, server_received_at
	`,
		rec.CallDate, rec.BasePrice, rec.FinalPrice, rec.LoadOrigin, rec.LoadDestination,
		rec.CallOutcome, rec.CallDuration, rec.IsNegotiated, rec.CarrierSentiment,
		rec.MCNumber, rec.CarrierName,
	).Scan(&rec.ID, &rec.ServerReceivedAt)
	if err != nil {
		return models.EventRecord{}, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.EventRecord{}, fmt.Errorf("commit insert: %w", err)
	}

	rec.ServerReceivedAt = rec.ServerReceivedAt.UTC()
	return rec, nil
}

// List returns a page of events ordered by id descending.
func (p *PostgresStore) List(ctx context.Context, limit, offset int) ([]models.EventRecord, error) {
	if offset < 0 {
		offset = 0
	}

	rows, err := p.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM call_events
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return out, nil
}

func (p *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM call_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// GroupCount groups in SQL and folds categories in Go, so NULL handling and
// case normalization do not depend on the engine's collation.
func (p *PostgresStore) GroupCount(ctx context.Context, field Field, categories []string) (map[string]int64, error) {
	if !field.categorical() {
		return nil, fmt.Errorf("group count %q: %w", field, ErrUnknownField)
	}

	// field is whitelisted above; it is never caller-supplied text.
	rows, err := p.pool.Query(ctx, fmt.Sprintf(
		`SELECT %[1]s, COUNT(*) FROM call_events GROUP BY %[1]s`, field,
	))
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", field, err)
	}

	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Group, error) {
		var g Group
		err := row.Scan(&g.Value, &g.Count)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s groups: %w", field, err)
	}

	return FoldCategories(field, groups, categories), nil
}

func (p *PostgresStore) NegotiatedCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM call_events
		WHERE COALESCE(
			is_negotiated,
			CASE
				WHEN base_price IS NOT NULL AND final_price IS NOT NULL AND base_price <> final_price
				THEN TRUE ELSE FALSE
			END
		) = TRUE
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count negotiated: %w", err)
	}
	return count, nil
}

// Average returns 0 when the column has no non-null values; AVG itself yields NULL.
func (p *PostgresStore) Average(ctx context.Context, field Field) (float64, error) {
	if !field.numeric() {
		return 0, fmt.Errorf("average %q: %w", field, ErrUnknownField)
	}

	var avg *float64
	err := p.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT AVG(%s)::float8 FROM call_events`, field,
	)).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average %s: %w", field, err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func scanEvent(row pgx.CollectableRow) (models.EventRecord, error) {
	var r models.EventRecord
	err := row.Scan(
		&r.ID, &r.ServerReceivedAt, &r.CallDate, &r.BasePrice, &r.FinalPrice, &r.LoadOrigin,
		&r.LoadDestination, &r.CallOutcome, &r.CallDuration, &r.IsNegotiated, &r.CarrierSentiment,
		&r.MCNumber, &r.CarrierName,
	)
	r.ServerReceivedAt = r.ServerReceivedAt.UTC()
	return r, err
}

var _ EventStore = (*PostgresStore)(nil)
