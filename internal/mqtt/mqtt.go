// Package mqtt publishes hit telemetry with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for resolved hit events.
const Topic = "percussion/taiko/hits"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "percussion/taiko/system"

// Hit is one resolved strike to be published.
type Hit struct {
	Timestamp time.Time
	Button    int
	Key       string // the pad's bound key label, e.g. "d"
	Value     float64
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishHit sends a hit event to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishHit(hit Hit) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload is the MQTT message payload for hit events.
type Payload struct {
	Hit HitPayload `json:"hit"`
}

// HitPayload contains the hit details.
type HitPayload struct {
	Timestamp string  `json:"timestamp"`
	Button    int     `json:"button"`
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
}

// FormatHitPayload creates the JSON payload for a hit event.
func FormatHitPayload(hit Hit) ([]byte, error) {
	payload := Payload{
		Hit: HitPayload{
			Timestamp: hit.Timestamp.UTC().Format(time.RFC3339Nano),
			Button:    hit.Button,
			Key:       hit.Key,
			Value:     hit.Value,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
