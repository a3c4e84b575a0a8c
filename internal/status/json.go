package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Pads          []PadJSON    `json:"pads"`
	TotalHits     int          `json:"total_hits"`
	LastHit       *LastHitJSON `json:"last_hit,omitempty"`
	Muted         bool         `json:"leds_muted"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// PadJSON is the JSON representation of one pad's state.
type PadJSON struct {
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`
	Hits    int    `json:"hits"`
}

// LastHitJSON is the JSON representation of the most recent hit.
type LastHitJSON struct {
	Button    int     `json:"button"`
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	WindowMs    float64  `json:"window_ms"`
	HoldMs      float64  `json:"hold_ms"`
	Threshold   int      `json:"threshold"`
	HeartbeatMs int64    `json:"heartbeat_ms"`
	Device      string   `json:"device"`
	Broker      string   `json:"broker"`
	HTTPAddr    string   `json:"http_addr"`
	Keys        []string `json:"keys"`
	MIDI        bool     `json:"midi"`
}

// Build converts a Snapshot into its JSON representation. event and reason
// are set for system lifecycle payloads and empty for plain status reads.
func Build(snap Snapshot, event, reason string) StatusJSON {
	inner := StatusInner{
		Event:         event,
		Reason:        reason,
		TotalHits:     snap.TotalHits(),
		Muted:         snap.Muted,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			WindowMs:    snap.Config.WindowMs,
			HoldMs:      snap.Config.HoldMs,
			Threshold:   snap.Config.Threshold,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Device:      snap.Config.Device,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Keys:        snap.Config.Keys[:],
			MIDI:        snap.Config.MIDI,
		},
	}

	for i, pressed := range snap.Pressed {
		inner.Pads = append(inner.Pads, PadJSON{
			Index:   i,
			Key:     snap.Config.Keys[i],
			Pressed: pressed,
			Hits:    snap.Counts[i],
		})
	}

	if snap.LastHit != nil {
		inner.LastHit = &LastHitJSON{
			Button:    snap.LastHit.Button,
			Key:       snap.LastHit.Key,
			Value:     snap.LastHit.Value,
			Timestamp: snap.LastHit.At.UTC().Format(time.RFC3339Nano),
		}
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}

	return StatusJSON{Status: inner}
}

// FormatStatusEvent renders a full status snapshot as a system event
// payload for MQTT.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	data, _ := json.Marshal(Build(snap, event, reason))
	return data
}
