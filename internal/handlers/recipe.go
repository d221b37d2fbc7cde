package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartfridge/fridge-monitor-service/internal/ingest"
)

// RegisterRecipeRoutes registers the recipe suggestion endpoint.
//
// GET /recipes?days=N
// - Requires X-API-Key (device context)
// - days is the expiry window in days from now (default 3)
// - 404 when the fridge holds nothing to cook with
func RegisterRecipeRoutes(r gin.IRoutes, o *ingest.Orchestrator) {
	r.GET("/recipes", func(c *gin.Context) {
		days := 0
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "days must be a non-negative integer"})
				return
			}
			days = n
		}

		names, recs, err := o.SuggestRecipes(c.Request.Context(), days)
		if errors.Is(err, ingest.ErrNoItems) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "no items found in the fridge"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "could not query fridge contents"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"recipe_for": names,
			"recipe":     gin.H{"recipes": recs},
		})
	})
}
