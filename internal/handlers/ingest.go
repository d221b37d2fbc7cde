package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartfridge/fridge-monitor-service/internal/auth"
	"github.com/smartfridge/fridge-monitor-service/internal/ingest"
)

// RegisterIngestRoutes registers the device report endpoint.
//
// POST /ingest
// - Requires X-API-Key (device context)
// - Body: free-form JSON with image_base64 plus sensor fields
// - Responds with the computed ml_result; persistence problems after a
//   successful detection never fail the request
func RegisterIngestRoutes(r gin.IRoutes, o *ingest.Orchestrator) {
	r.POST("/ingest", func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON payload"})
			return
		}
		// A literal null body binds to a nil map without error.
		if payload == nil {
			payload = map[string]any{}
		}

		// The authenticated device is authoritative unless the payload
		// names one explicitly.
		if _, ok := payload["device_id"]; !ok {
			if id := auth.DeviceID(c); id != "" {
				payload["device_id"] = id
			}
		}

		ev, err := o.ProcessReport(c.Request.Context(), payload)
		if errors.Is(err, ingest.ErrMissingImage) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "image_base64 is required"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "image processing failed: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"received_event": ev,
			"ml_result":      ev.MLResult,
		})
	})
}
