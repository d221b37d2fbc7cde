// Package vision invokes the external object-detection worker. The worker
// is an opaque subprocess: it reads a single JSON request on stdin and
// writes a single JSON response on stdout. Everything it knows about
// images (YOLO, OCR, date extraction) stays on its side of the pipe.
package vision

import (
	"context"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// Detector is the capability the ingest pipeline needs from the vision
// side. Implementations may take seconds; they must honor ctx.
type Detector interface {
	Detect(ctx context.Context, imageBase64 string, metadata map[string]any) ([]models.DetectedItem, error)
}

// ProcessError reports that the worker process itself failed: it could
// not be started, was killed, or exited non-zero. Stderr carries the
// worker's diagnostic output.
type ProcessError struct {
	Err    error
	Stderr string
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return "vision worker failed: " + e.Err.Error() + ": " + e.Stderr
	}
	return "vision worker failed: " + e.Err.Error()
}

func (e *ProcessError) Unwrap() error { return e.Err }

// OutputError reports that the worker ran but its output was not usable:
// stdout was not the expected JSON shape, or the worker reported an
// explicit error field.
type OutputError struct {
	Msg string
}

func (e *OutputError) Error() string { return "vision worker output: " + e.Msg }
