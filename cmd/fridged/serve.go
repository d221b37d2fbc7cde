package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/smartfridge/fridge-monitor-service/internal/alerts"
	"github.com/smartfridge/fridge-monitor-service/internal/config"
	"github.com/smartfridge/fridge-monitor-service/internal/genai"
	"github.com/smartfridge/fridge-monitor-service/internal/httpserver"
	"github.com/smartfridge/fridge-monitor-service/internal/ingest"
	"github.com/smartfridge/fridge-monitor-service/internal/recipes"
	"github.com/smartfridge/fridge-monitor-service/internal/store"
	"github.com/smartfridge/fridge-monitor-service/internal/vision"
)

// serveCmd boots the service: config → store → schema → pipeline → HTTP server.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load runtime config from environment.
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Connect durable storage; fall back to the in-memory store
			// for DB-less local runs.
			var st store.Store
			if cfg.DBURL != "" {
				pg, err := store.NewPostgresStore(cfg.DBURL)
				if err != nil {
					return err
				}
				// Ensure required tables/indexes exist so `docker compose up --build` is enough.
				if err := pg.EnsureSchema(); err != nil {
					return err
				}
				st = pg
			} else {
				log.Println("DB_URL not set, using in-memory store")
				st = store.NewMemoryStore()
			}
			defer st.Close()

			// Optional MQTT alert publishing.
			var sink alerts.Sink
			if cfg.MQTTBroker != "" {
				pub, err := alerts.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, nil)
				if err != nil {
					return err
				}
				defer pub.Close()
				sink = pub
			}

			detector := vision.NewRunner(cfg.VisionCommand, cfg.VisionTimeout, nil)
			generator := genai.NewClient(cfg.GenAIBaseURL, cfg.GenAIModel, cfg.GenAIAPIKey)
			orch := ingest.New(detector, st, recipes.NewRequester(generator, nil), sink, nil)
			defer orch.Drain()

			// Build HTTP router (public health + authenticated APIs).
			router := httpserver.NewRouter(cfg, st, orch)

			log.Printf("server started on %s", cfg.ListenAddr)
			return router.Run(cfg.ListenAddr)
		},
	}
}
