package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_RoundTrip(t *testing.T) {
	d, err := ParseDate("2026-09-03")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2026-09-03"` {
		t.Fatalf("marshaled date = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed the date: %v vs %v", back, d)
	}

	if _, err := ParseDate("03/09/2026"); err == nil {
		t.Fatal("non-ISO date must not parse")
	}
}

func TestDetectedItem_AttributePassthrough(t *testing.T) {
	raw := `{"name":"milk","expiration_date":"2026-09-10","confidence":0.87,"bbox":[1,2,3,4]}`

	var it DetectedItem
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if it.Name != "milk" {
		t.Fatalf("Name = %q", it.Name)
	}
	if it.ExpirationDate == nil || it.ExpirationDate.String() != "2026-09-10" {
		t.Fatalf("ExpirationDate = %v", it.ExpirationDate)
	}
	if _, ok := it.Attrs["confidence"]; !ok {
		t.Fatalf("confidence not kept: %v", it.Attrs)
	}
	if _, ok := it.Attrs["name"]; ok {
		t.Fatal("interpreted field leaked into Attrs")
	}

	out, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("re-Unmarshal: %v", err)
	}
	for _, key := range []string{"name", "expiration_date", "confidence", "bbox"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("key %q lost on marshal: %s", key, out)
		}
	}
}

func TestDetectedItem_NullExpiration(t *testing.T) {
	var it DetectedItem
	if err := json.Unmarshal([]byte(`{"name":"apple","expiration_date":null}`), &it); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if it.ExpirationDate != nil {
		t.Fatalf("ExpirationDate = %v, want nil", it.ExpirationDate)
	}

	out, _ := json.Marshal(it)
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if v, ok := m["expiration_date"]; !ok || v != nil {
		t.Fatalf("expiration_date should serialize as explicit null: %s", out)
	}
}

func TestFridgeItem_MarshalFlat(t *testing.T) {
	exp, _ := ParseDate("2026-09-10")
	f := FridgeItem{
		ID:       "0f2c2b1e-1111-2222-3333-444455556666",
		Item:     DetectedItem{Name: "milk", ExpirationDate: &exp, Attrs: map[string]any{"confidence": 0.9}},
		LastSeen: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["id"] != f.ID || m["name"] != "milk" || m["expiration_date"] != "2026-09-10" {
		t.Fatalf("flat fields wrong: %s", out)
	}
	if _, ok := m["last_seen"].(string); !ok {
		t.Fatalf("last_seen missing: %s", out)
	}

	var back FridgeItem
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal FridgeItem: %v", err)
	}
	if back.ID != f.ID || !back.LastSeen.Equal(f.LastSeen) || back.Item.Name != "milk" {
		t.Fatalf("round trip = %+v", back)
	}
}

func TestParseReport(t *testing.T) {
	r := ParseReport(map[string]any{
		"device_id":         "fridge-1",
		"image_base64":      "aGk=",
		"gas_level_percent": 42.5,
		"door_status":       "open",
		"firmware":          "1.2.0",
	})
	if r.DeviceID != "fridge-1" || r.ImageBase64 != "aGk=" || r.GasLevelPercent != 42.5 || r.DoorStatus != "open" {
		t.Fatalf("parsed report = %+v", r)
	}
	if r.Payload["firmware"] != "1.2.0" {
		t.Fatal("payload not kept verbatim")
	}

	// Missing and mistyped sensor fields fall back to non-alerting zeros.
	r = ParseReport(map[string]any{"image_base64": "aGk=", "gas_level_percent": "high"})
	if r.GasLevelPercent != 0 || r.DoorStatus != "" {
		t.Fatalf("defaults = %+v", r)
	}
}
