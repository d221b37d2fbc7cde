package store

import (
	"context"
	"testing"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

func mustDate(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return &d
}

func names(items []models.FridgeItem) map[string]bool {
	out := map[string]bool{}
	for _, f := range items {
		out[f.Item.Name] = true
	}
	return out
}

func TestReplaceItems_SnapshotSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := []models.DetectedItem{
		{Name: "milk", ExpirationDate: mustDate(t, "2026-09-05")},
		{Name: "cheese"},
	}
	stored, err := s.ReplaceItems(ctx, first)
	if err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d items, want 2", len(stored))
	}
	for _, f := range stored {
		if f.ID == "" || f.LastSeen.IsZero() {
			t.Fatalf("item missing id/last_seen: %+v", f)
		}
	}

	listed, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := names(listed); len(got) != 2 || !got["milk"] || !got["cheese"] {
		t.Fatalf("snapshot = %v, want {milk, cheese}", got)
	}

	// A later cycle with different contents fully replaces the earlier one.
	if _, err := s.ReplaceItems(ctx, []models.DetectedItem{{Name: "apple"}}); err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}
	listed, _ = s.ListItems(ctx)
	if got := names(listed); len(got) != 1 || !got["apple"] {
		t.Fatalf("snapshot after second cycle = %v, want {apple}", got)
	}
}

func TestReplaceItems_EmptyDetectionsEmptyTheFridge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.ReplaceItems(ctx, []models.DetectedItem{{Name: "milk"}}); err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}
	if _, err := s.ReplaceItems(ctx, nil); err != nil {
		t.Fatalf("ReplaceItems(empty): %v", err)
	}

	listed, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("snapshot should be empty, got %v", listed)
	}
}

func TestItemsExpiringBetween_InclusiveRangeNoDateExcluded(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.ReplaceItems(ctx, []models.DetectedItem{
		{Name: "before", ExpirationDate: mustDate(t, "2026-08-31")},
		{Name: "start", ExpirationDate: mustDate(t, "2026-09-01")},
		{Name: "middle", ExpirationDate: mustDate(t, "2026-09-02")},
		{Name: "end", ExpirationDate: mustDate(t, "2026-09-03")},
		{Name: "after", ExpirationDate: mustDate(t, "2026-09-04")},
		{Name: "undated"},
	})
	if err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}

	start, _ := models.ParseDate("2026-09-01")
	end, _ := models.ParseDate("2026-09-03")
	got, err := s.ItemsExpiringBetween(ctx, start, end)
	if err != nil {
		t.Fatalf("ItemsExpiringBetween: %v", err)
	}

	want := map[string]bool{"start": true, "middle": true, "end": true}
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("got %v, want %v", gotNames, want)
	}
	for n := range want {
		if !gotNames[n] {
			t.Fatalf("missing %q in %v", n, gotNames)
		}
	}
}

func TestSampleItems_BoundedByContents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.SampleItems(ctx, 3)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty store sample = %v, %v", got, err)
	}

	if _, err := s.ReplaceItems(ctx, []models.DetectedItem{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatalf("ReplaceItems: %v", err)
	}
	got, err = s.SampleItems(ctx, 3)
	if err != nil {
		t.Fatalf("SampleItems: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sample of 3 from 2 items returned %d", len(got))
	}
}

func TestAppendEvent_AppendsOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ev := models.Event{ID: "e1", DeviceID: "fridge-1", Payload: map[string]any{"door_status": "open"}}
	if err := s.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent(ctx, models.Event{ID: "e2"}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	events := s.Events()
	if len(events) != 2 || events[0].ID != "e1" || events[1].ID != "e2" {
		t.Fatalf("event log = %v", events)
	}
}
