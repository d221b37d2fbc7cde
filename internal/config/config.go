package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains runtime configuration required by the service.
type Config struct {
	ListenAddr string
	DBURL      string            // empty → in-memory store (local dev)
	APIKeys    map[string]string // apiKey -> deviceID

	VisionCommand []string
	VisionTimeout time.Duration

	GenAIBaseURL string
	GenAIModel   string
	GenAIAPIKey  string

	MQTTBroker   string // empty → alert publishing disabled
	MQTTTopic    string
	MQTTClientID string
}

// Load reads values from environment variables.
// API_KEYS format: "device1:key1,device2:key2"
// VISION_CMD is the worker command line, split on whitespace.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		DBURL:         strings.TrimSpace(os.Getenv("DB_URL")),
		VisionCommand: strings.Fields(envOr("VISION_CMD", "python3 scripts/local-yolo.py")),
		GenAIBaseURL:  envOr("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GenAIModel:    envOr("GENAI_MODEL", "gemini-1.5-flash"),
		GenAIAPIKey:   strings.TrimSpace(os.Getenv("GENAI_API_KEY")),
		MQTTBroker:    strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTTopic:     envOr("MQTT_TOPIC", "fridge/alerts"),
		MQTTClientID:  envOr("MQTT_CLIENT_ID", "fridge-monitor"),
	}

	timeoutSecs := envOr("VISION_TIMEOUT_SECONDS", "30")
	secs, err := strconv.Atoi(timeoutSecs)
	if err != nil || secs <= 0 {
		return Config{}, fmt.Errorf("VISION_TIMEOUT_SECONDS must be a positive integer, got %q", timeoutSecs)
	}
	cfg.VisionTimeout = time.Duration(secs) * time.Second

	apiKeysRaw := strings.TrimSpace(os.Getenv("API_KEYS"))
	apiKeys := map[string]string{}

	if apiKeysRaw != "" {
		pairs := strings.Split(apiKeysRaw, ",")
		for _, p := range pairs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return Config{}, errors.New(`API_KEYS must be "device:key,device:key"`)
			}
			device := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if device == "" || key == "" {
				return Config{}, errors.New(`API_KEYS must be "device:key,device:key"`)
			}
			apiKeys[key] = device
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["fridge-key-123"] = "fridge-1"
	}
	cfg.APIKeys = apiKeys

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
