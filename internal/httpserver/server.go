package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartfridge/fridge-monitor-service/internal/auth"
	"github.com/smartfridge/fridge-monitor-service/internal/config"
	"github.com/smartfridge/fridge-monitor-service/internal/handlers"
	"github.com/smartfridge/fridge-monitor-service/internal/ingest"
	"github.com/smartfridge/fridge-monitor-service/internal/store"
)

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready
// Authenticated: /ingest, /fridge, /recipes
func NewRouter(cfg config.Config, st store.Store, orch *ingest.Orchestrator) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Auth group enforces device context via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterIngestRoutes(authGroup, orch)
	handlers.RegisterFridgeRoutes(authGroup, st)
	handlers.RegisterRecipeRoutes(authGroup, orch)

	return r
}
