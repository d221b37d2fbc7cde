package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// ReplaceItems swaps the whole snapshot inside one transaction: from any
// reader's perspective the fridge goes from the old contents straight to
// the new ones. Concurrent replaces are last-writer-wins by design.
func (p *PostgresStore) ReplaceItems(ctx context.Context, items []models.DetectedItem) ([]models.FridgeItem, error) {
	now := time.Now().UTC()

	stored := make([]models.FridgeItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, models.FridgeItem{
			ID:       uuid.New().String(),
			Item:     it,
			LastSeen: now,
		})
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM fridge_items`); err != nil {
			return err
		}
		for _, f := range stored {
			attrs, err := json.Marshal(attrsOrEmpty(f.Item.Attrs))
			if err != nil {
				return err
			}
			var exp *time.Time
			if f.Item.ExpirationDate != nil {
				t := f.Item.ExpirationDate.Time
				exp = &t
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO fridge_items(id, name, expiration_date, attrs, last_seen)
				VALUES ($1,$2,$3,$4,$5)
			`, f.ID, f.Item.Name, exp, attrs, f.LastSeen)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ListItems returns the full current snapshot.
func (p *PostgresStore) ListItems(ctx context.Context) ([]models.FridgeItem, error) {
	return p.queryItems(ctx, `
		SELECT id, name, expiration_date, attrs, last_seen
		FROM fridge_items
	`)
}

// ItemsExpiringBetween returns items expiring in [start, end] inclusive.
// Items without an expiration date never match.
func (p *PostgresStore) ItemsExpiringBetween(ctx context.Context, start, end models.Date) ([]models.FridgeItem, error) {
	return p.queryItems(ctx, `
		SELECT id, name, expiration_date, attrs, last_seen
		FROM fridge_items
		WHERE expiration_date IS NOT NULL
		  AND expiration_date >= $1
		  AND expiration_date <= $2
	`, start.Time, end.Time)
}

// SampleItems returns up to n random items.
func (p *PostgresStore) SampleItems(ctx context.Context, n int) ([]models.FridgeItem, error) {
	return p.queryItems(ctx, `
		SELECT id, name, expiration_date, attrs, last_seen
		FROM fridge_items
		ORDER BY random()
		LIMIT $1
	`, n)
}

// AppendEvent records one ingest cycle. Events are never updated or
// deleted, so a plain insert is the whole story.
func (p *PostgresStore) AppendEvent(ctx context.Context, ev models.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}
	mlResult, err := json.Marshal(ev.MLResult)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO fridge_events(id, device_id, received_at, payload, ml_result)
		VALUES ($1,$2,$3,$4,$5)
	`, ev.ID, ev.DeviceID, ev.ReceivedAt, payload, mlResult)
	return err
}

func (p *PostgresStore) queryItems(ctx context.Context, sql string, args ...any) ([]models.FridgeItem, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.FridgeItem{}
	for rows.Next() {
		var (
			f     models.FridgeItem
			exp   *time.Time
			attrs []byte
		)
		if err := rows.Scan(&f.ID, &f.Item.Name, &exp, &attrs, &f.LastSeen); err != nil {
			return nil, err
		}
		if exp != nil {
			d := models.DateOf(*exp)
			f.Item.ExpirationDate = &d
		}
		if len(attrs) > 0 {
			var m map[string]any
			if err := json.Unmarshal(attrs, &m); err != nil {
				return nil, err
			}
			if len(m) > 0 {
				f.Item.Attrs = m
			}
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func attrsOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
