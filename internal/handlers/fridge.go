package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartfridge/fridge-monitor-service/internal/store"
)

// RegisterFridgeRoutes registers the current-contents endpoint.
//
// GET /fridge
// - Requires X-API-Key (device context)
// - Returns the full current snapshot
func RegisterFridgeRoutes(r gin.IRoutes, st store.Store) {
	r.GET("/fridge", func(c *gin.Context) {
		items, err := st.ListItems(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "could not read fridge contents"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"count":  len(items),
			"items":  items,
		})
	})
}
