// Package status provides a thread-safe status tracker for the taiko-sensor
// daemon. It is read by the HTTP handlers and the websocket hub.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	WindowMs    float64
	HoldMs      float64
	Threshold   int
	HeartbeatMs int64
	Device      string
	Broker      string
	HTTPAddr    string
	Keys        [hit.NumButtons]string
	MIDI        bool
}

// HitInfo describes the most recent resolved hit.
type HitInfo struct {
	Button int
	Key    string
	Value  float64
	At     time.Time
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Pressed       [hit.NumButtons]bool
	Counts        hit.Counts
	LastHit       *HitInfo
	Muted         bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// TotalHits returns the number of resolved hits across all pads.
func (s Snapshot) TotalHits() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets pad states, hit counts and LED mute.
// Called from the run loop on every processed frame.
func (t *Tracker) Update(pressed [hit.NumButtons]bool, counts hit.Counts, muted bool) {
	t.mu.Lock()
	t.snap.Pressed = pressed
	t.snap.Counts = counts
	t.snap.Muted = muted
	t.mu.Unlock()
}

// RecordHit sets the most recent hit.
func (t *Tracker) RecordHit(info HitInfo) {
	t.mu.Lock()
	t.snap.LastHit = &info
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
