package store

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// MemoryStore keeps the snapshot and event log in process memory. Used
// when no DB_URL is configured (local development) and by the test
// suite. Semantics match PostgresStore.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []models.FridgeItem
	events []models.Event
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReplaceItems swaps the whole snapshot under the store lock.
func (m *MemoryStore) ReplaceItems(_ context.Context, items []models.DetectedItem) ([]models.FridgeItem, error) {
	now := time.Now().UTC()

	stored := make([]models.FridgeItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, models.FridgeItem{
			ID:       uuid.New().String(),
			Item:     it,
			LastSeen: now,
		})
	}

	m.mu.Lock()
	m.items = stored
	m.mu.Unlock()

	out := make([]models.FridgeItem, len(stored))
	copy(out, stored)
	return out, nil
}

// ListItems returns a copy of the current snapshot.
func (m *MemoryStore) ListItems(_ context.Context) ([]models.FridgeItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.FridgeItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

// ItemsExpiringBetween filters the snapshot by expiration date,
// inclusive on both ends. Items without a date never match.
func (m *MemoryStore) ItemsExpiringBetween(_ context.Context, start, end models.Date) ([]models.FridgeItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.FridgeItem{}
	for _, f := range m.items {
		exp := f.Item.ExpirationDate
		if exp == nil {
			continue
		}
		if exp.Before(start.Time) || exp.After(end.Time) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// SampleItems returns up to n items in random order.
func (m *MemoryStore) SampleItems(_ context.Context, n int) ([]models.FridgeItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > len(m.items) {
		n = len(m.items)
	}
	out := make([]models.FridgeItem, 0, n)
	for _, i := range rand.Perm(len(m.items))[:n] {
		out = append(out, m.items[i])
	}
	return out, nil
}

// AppendEvent records one ingest cycle.
func (m *MemoryStore) AppendEvent(_ context.Context, ev models.Event) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of the event log. Not part of the Store
// interface; the service never reads events back, but tests do.
func (m *MemoryStore) Events() []models.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() {}
