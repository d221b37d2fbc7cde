package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// Runner runs the detection worker as a one-shot subprocess per request.
//
// Wire protocol (stdin → worker):
//
//	{"image_base64": "<jpeg>", "metadata": {...}}
//
// Wire protocol (worker → stdout):
//
//	{"detected_items": [{"name": "...", "expiration_date": "YYYY-MM-DD"|null, ...}]}
//	{"error": "human-readable reason"}
//
// A non-zero exit is a protocol-level failure; stderr is captured for
// diagnostics. Context cancellation kills the subprocess.
type Runner struct {
	command []string
	timeout time.Duration
	log     *slog.Logger
}

// NewRunner builds a Runner for the given worker command line
// (program plus fixed arguments). timeout bounds a single invocation.
func NewRunner(command []string, timeout time.Duration, log *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{command: command, timeout: timeout, log: log}
}

type detectRequest struct {
	ImageBase64 string         `json:"image_base64"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type detectResponse struct {
	DetectedItems []models.DetectedItem `json:"detected_items"`
	Error         string                `json:"error"`
}

// Detect sends the image to the worker and parses its detections.
func (r *Runner) Detect(ctx context.Context, imageBase64 string, metadata map[string]any) ([]models.DetectedItem, error) {
	if len(r.command) == 0 {
		return nil, &ProcessError{Err: errors.New("no worker command configured")}
	}

	payload, err := json.Marshal(detectRequest{ImageBase64: imageBase64, Metadata: metadata})
	if err != nil {
		return nil, &ProcessError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	// After the context kill, stop waiting on the stdout/stderr pipes:
	// a child the worker forked may inherit them and hold them open.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &ProcessError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, &OutputError{Msg: "worker produced no output: " + strings.TrimSpace(stderr.String())}
	}

	var resp detectResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, &OutputError{Msg: "malformed worker output: " + err.Error()}
	}
	if resp.Error != "" {
		return nil, &OutputError{Msg: resp.Error}
	}

	r.log.Debug("vision detection complete",
		"items", len(resp.DetectedItems),
		"elapsed", time.Since(started),
	)
	return resp.DetectedItems, nil
}
