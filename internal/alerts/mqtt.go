// Package alerts publishes alert states raised by ingest cycles to an
// MQTT topic, so kitchen-side subscribers (displays, notifiers) hear
// about gas and door conditions without polling the API. Publishing is
// fire-and-forget: a broker outage never fails an ingest cycle.
package alerts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// Sink receives alert states raised by ingest cycles.
type Sink interface {
	Publish(deviceID string, alert models.AlertState) error
}

// Publisher is an MQTT-backed Sink.
type Publisher struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

type alertMessage struct {
	DeviceID    string `json:"device_id"`
	IsAlert     bool   `json:"is_alert"`
	AlertReason string `json:"alert_reason"`
	RaisedAt    string `json:"raised_at"`
}

// NewPublisher connects to the broker. The connection auto-reconnects;
// publishes while disconnected fail and are logged by the caller.
func NewPublisher(broker, clientID, topic string, log *slog.Logger) (*Publisher, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		log.Info("mqtt connection established", "broker", broker, "client_id", clientID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost, will auto-reconnect", "error", err, "broker", broker)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}

	return &Publisher{client: client, topic: topic, log: log}, nil
}

// Publish sends one alert state to the configured topic.
func (p *Publisher) Publish(deviceID string, alert models.AlertState) error {
	payload, err := json.Marshal(alertMessage{
		DeviceID:    deviceID,
		IsAlert:     alert.IsAlert,
		AlertReason: alert.AlertReason,
		RaisedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("mqtt publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish failed: %w", err)
	}

	p.log.Debug("alert published", "topic", p.topic, "device_id", deviceID, "reason", alert.AlertReason)
	return nil
}

// Close disconnects from the broker with a short grace period.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
