package models

import (
	"encoding/json"
	"time"
)

// DetectedItem is one object the vision worker recognized in a captured
// image. name and expiration_date are the only fields this service
// interprets; any other attributes the worker emits are carried through
// untouched in Attrs.
type DetectedItem struct {
	Name           string
	ExpirationDate *Date
	Attrs          map[string]any
}

// MarshalJSON flattens Attrs back alongside the interpreted fields.
// expiration_date is always present (null when unknown), matching the
// vision worker's own output shape.
func (it DetectedItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(it.Attrs)+2)
	for k, v := range it.Attrs {
		out[k] = v
	}
	out["name"] = it.Name
	out["expiration_date"] = it.ExpirationDate
	return json.Marshal(out)
}

// UnmarshalJSON pulls out name and expiration_date and keeps every other
// key as an opaque attribute.
func (it *DetectedItem) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	it.Name = ""
	it.ExpirationDate = nil
	it.Attrs = nil

	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &it.Name); err != nil {
			return err
		}
		delete(raw, "name")
	}
	if v, ok := raw["expiration_date"]; ok {
		if string(v) != "null" {
			var d Date
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			it.ExpirationDate = &d
		}
		delete(raw, "expiration_date")
	}
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		if it.Attrs == nil {
			it.Attrs = make(map[string]any, len(raw))
		}
		it.Attrs[k] = val
	}
	return nil
}

// FridgeItem is a DetectedItem as persisted in the current-contents
// snapshot: the store assigns an ID and stamps the ingest cycle that
// produced it. The whole collection is replaced on every ingest cycle
// that carried an image; no item survives from a prior cycle.
type FridgeItem struct {
	ID       string
	Item     DetectedItem
	LastSeen time.Time
}

// MarshalJSON renders the item flat: detected attributes plus id and
// last_seen.
func (f FridgeItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Item.Attrs)+4)
	for k, v := range f.Item.Attrs {
		out[k] = v
	}
	out["name"] = f.Item.Name
	out["expiration_date"] = f.Item.ExpirationDate
	out["id"] = f.ID
	out["last_seen"] = f.LastSeen.UTC().Format(time.RFC3339Nano)
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (f *FridgeItem) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &f.Item); err != nil {
		return err
	}
	if id, ok := f.Item.Attrs["id"].(string); ok {
		f.ID = id
		delete(f.Item.Attrs, "id")
	}
	if ls, ok := f.Item.Attrs["last_seen"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ls); err == nil {
			f.LastSeen = t
		}
		delete(f.Item.Attrs, "last_seen")
	}
	if len(f.Item.Attrs) == 0 {
		f.Item.Attrs = nil
	}
	return nil
}

// AlertState is derived per ingest cycle from the sensor fields alone.
type AlertState struct {
	IsAlert     bool   `json:"is_alert"`
	AlertReason string `json:"alert_reason"`
}

// MLResult is what an ingest cycle computed: the vision detections plus
// the sensor-derived alert state.
type MLResult struct {
	DetectedItems []DetectedItem `json:"detected_items"`
	AlertState
}

// Event is one append-only record of an ingest cycle: the full inbound
// payload plus the derived MLResult. Events are never mutated or deleted.
type Event struct {
	ID         string         `json:"id"`
	DeviceID   string         `json:"device_id"`
	ReceivedAt time.Time      `json:"received_at"`
	Payload    map[string]any `json:"payload"`
	MLResult   MLResult       `json:"ml_result"`
}

// Recipe is a single generated suggestion. Recipes are computed per
// request and never persisted.
type Recipe struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Report is the parsed inbound device payload. Payload keeps the
// original body verbatim for the event log.
type Report struct {
	DeviceID        string
	ImageBase64     string
	GasLevelPercent float64
	DoorStatus      string
	Payload         map[string]any
}

// ParseReport extracts the fields this service interprets from a
// free-form device payload. Missing sensor fields parse as non-alerting
// zero values; only the image is validated elsewhere.
func ParseReport(payload map[string]any) Report {
	r := Report{Payload: payload}
	if s, ok := payload["image_base64"].(string); ok {
		r.ImageBase64 = s
	}
	if n, ok := payload["gas_level_percent"].(float64); ok {
		r.GasLevelPercent = n
	}
	if s, ok := payload["door_status"].(string); ok {
		r.DoorStatus = s
	}
	if s, ok := payload["device_id"].(string); ok {
		r.DeviceID = s
	}
	return r
}
