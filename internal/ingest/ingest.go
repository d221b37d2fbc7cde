// Package ingest sequences one full processing pass per inbound device
// report: validate, detect, evaluate sensors, replace the contents
// snapshot, append the event log. It also owns the expiry-aware recipe
// query flow. Persistence after a successful detection is best-effort;
// the caller gets the computed result either way.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartfridge/fridge-monitor-service/internal/alerts"
	"github.com/smartfridge/fridge-monitor-service/internal/models"
	"github.com/smartfridge/fridge-monitor-service/internal/recipes"
	"github.com/smartfridge/fridge-monitor-service/internal/sensors"
	"github.com/smartfridge/fridge-monitor-service/internal/store"
	"github.com/smartfridge/fridge-monitor-service/internal/vision"
)

// ErrMissingImage rejects a report without an image payload. Client
// fault; nothing is persisted.
var ErrMissingImage = errors.New("missing image_base64 in report")

// ErrNoItems means the fridge snapshot is empty, so there is nothing to
// suggest recipes for.
var ErrNoItems = errors.New("no items in fridge")

// defaultExpiryWindowDays is the recipe query window when the caller
// does not pass one.
const defaultExpiryWindowDays = 3

// recipeFallbackSampleSize bounds the random fallback when nothing is
// expiring inside the window.
const recipeFallbackSampleSize = 3

// appendTimeout bounds the detached event-log write.
const appendTimeout = 10 * time.Second

// Orchestrator wires the ingest pipeline's collaborators together.
type Orchestrator struct {
	detector vision.Detector
	st       store.Store
	recipes  *recipes.Requester
	alerts   alerts.Sink
	log      *slog.Logger

	// wg tracks fire-and-forget writes so shutdown (and tests) can
	// drain them; the response path never waits on it.
	wg sync.WaitGroup
}

// New builds an Orchestrator. alertSink may be nil when no broker is
// configured.
func New(detector vision.Detector, st store.Store, rq *recipes.Requester, alertSink alerts.Sink, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		detector: detector,
		st:       st,
		recipes:  rq,
		alerts:   alertSink,
		log:      log,
	}
}

// ProcessReport runs one ingest cycle over the raw device payload and
// returns the event record containing the computed ml_result.
//
// Failures before the vision result exists (missing image, a broken
// worker) abort the cycle and propagate. Failures after that point
// (snapshot replace, event append, alert publish) are logged and
// swallowed so the device still gets its result.
func (o *Orchestrator) ProcessReport(ctx context.Context, payload map[string]any) (models.Event, error) {
	report := models.ParseReport(payload)
	if strings.TrimSpace(report.ImageBase64) == "" {
		return models.Event{}, ErrMissingImage
	}

	items, err := o.detector.Detect(ctx, report.ImageBase64, detectionMetadata(report))
	if err != nil {
		o.log.Error("vision detection failed", "device_id", report.DeviceID, "error", err)
		return models.Event{}, err
	}
	if items == nil {
		items = []models.DetectedItem{}
	}

	alert := sensors.Evaluate(report.GasLevelPercent, report.DoorStatus)

	ev := models.Event{
		ID:         uuid.New().String(),
		DeviceID:   report.DeviceID,
		ReceivedAt: time.Now().UTC(),
		Payload:    report.Payload,
		MLResult: models.MLResult{
			DetectedItems: items,
			AlertState:    alert,
		},
	}

	// Snapshot replacement: recovered on failure, the device still gets
	// its result. Empty detections empty the fridge.
	if _, err := o.st.ReplaceItems(ctx, items); err != nil {
		o.log.Error("snapshot replace failed", "event_id", ev.ID, "error", err)
	}

	o.appendEventAsync(ev)
	o.publishAlertAsync(ev.DeviceID, alert)

	return ev, nil
}

// appendEventAsync writes the event log entry off the response path.
// The write gets its own context so a client disconnect does not cancel
// it.
func (o *Orchestrator) appendEventAsync(ev models.Event) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()

		if err := o.st.AppendEvent(ctx, ev); err != nil {
			o.log.Error("event log append failed", "event_id", ev.ID, "error", err)
		}
	}()
}

// publishAlertAsync forwards a raised alert to the sink, if any.
func (o *Orchestrator) publishAlertAsync(deviceID string, alert models.AlertState) {
	if o.alerts == nil || !alert.IsAlert {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		if err := o.alerts.Publish(deviceID, alert); err != nil {
			o.log.Error("alert publish failed", "device_id", deviceID, "error", err)
		}
	}()
}

// Drain waits for in-flight detached writes. Called on shutdown; tests
// use it to observe the event log deterministically.
func (o *Orchestrator) Drain() {
	o.wg.Wait()
}

// SuggestRecipes runs the caller-initiated recipe flow: items expiring
// within windowDays from now, falling back to a random sample when
// nothing is expiring, then the recipe requester. Returns the item
// names used alongside the suggestions. Fails with ErrNoItems when the
// fridge is empty.
func (o *Orchestrator) SuggestRecipes(ctx context.Context, windowDays int) ([]string, []models.Recipe, error) {
	if windowDays <= 0 {
		windowDays = defaultExpiryWindowDays
	}

	now := time.Now().UTC()
	start := models.DateOf(now)
	end := models.DateOf(now.AddDate(0, 0, windowDays))

	items, err := o.st.ItemsExpiringBetween(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		items, err = o.st.SampleItems(ctx, recipeFallbackSampleSize)
		if err != nil {
			return nil, nil, err
		}
	}

	names := make([]string, 0, len(items))
	for _, f := range items {
		names = append(names, f.Item.Name)
	}
	if len(names) == 0 {
		return nil, nil, ErrNoItems
	}

	return names, o.recipes.RequestRecipes(ctx, names), nil
}

// detectionMetadata is the auxiliary context passed to the vision
// worker: the report minus the image itself.
func detectionMetadata(report models.Report) map[string]any {
	meta := make(map[string]any, len(report.Payload))
	for k, v := range report.Payload {
		if k == "image_base64" {
			continue
		}
		meta[k] = v
	}
	return meta
}
