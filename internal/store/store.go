// Package store is the persistence layer: a replace-on-write snapshot of
// current fridge contents and an append-only ingest event log.
package store

import (
	"context"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// Store is what the rest of the service needs from persistence.
//
// The item snapshot is last-writer-wins: ReplaceItems from overlapping
// ingest cycles do not merge, the last completed call defines the
// contents. Events are append-only and never read back by this service.
type Store interface {
	// ReplaceItems discards the whole current snapshot and inserts the
	// given detections, stamping each with an ID and the current time.
	// An empty input leaves the snapshot empty.
	ReplaceItems(ctx context.Context, items []models.DetectedItem) ([]models.FridgeItem, error)

	// ListItems returns the full current snapshot.
	ListItems(ctx context.Context) ([]models.FridgeItem, error)

	// ItemsExpiringBetween returns items whose expiration date falls in
	// [start, end] inclusive. Items without an expiration date are
	// excluded.
	ItemsExpiringBetween(ctx context.Context, start, end models.Date) ([]models.FridgeItem, error)

	// SampleItems returns up to n items with no ordering guarantee.
	SampleItems(ctx context.Context, n int) ([]models.FridgeItem, error)

	// AppendEvent records one ingest cycle.
	AppendEvent(ctx context.Context, ev models.Event) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close()
}
