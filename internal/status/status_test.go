package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/taiko-sensor/internal/hit"
)

func testConfig() Config {
	return Config{
		WindowMs:    5,
		HoldMs:      20,
		Threshold:   15,
		HeartbeatMs: 900000,
		Device:      "/dev/ttyACM0",
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
		Keys:        [hit.NumButtons]string{"d", "f", "j", "k"},
	}
}

func TestNewTrackerSnapshot(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time: got %v", snap.StartTime)
	}
	if snap.Config.Device != "/dev/ttyACM0" {
		t.Errorf("config not carried: %+v", snap.Config)
	}
	for i, p := range snap.Pressed {
		if p {
			t.Errorf("pad %d pressed in fresh snapshot", i)
		}
	}
	if snap.Now.IsZero() {
		t.Error("Snapshot should stamp Now")
	}
}

func TestUpdateAndTotalHits(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.Update([hit.NumButtons]bool{true, false, true, false}, hit.Counts{3, 0, 7, 1}, true)

	snap := tr.Snapshot()
	if !snap.Pressed[0] || !snap.Pressed[2] {
		t.Error("pressed pads not recorded")
	}
	if !snap.Muted {
		t.Error("mute not recorded")
	}
	if snap.TotalHits() != 11 {
		t.Errorf("total hits: got %d, want 11", snap.TotalHits())
	}
}

func TestRecordHit(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	at := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

	tr.RecordHit(HitInfo{Button: 2, Key: "j", Value: 512, At: at})

	snap := tr.Snapshot()
	if snap.LastHit == nil {
		t.Fatal("expected last hit recorded")
	}
	if snap.LastHit.Button != 2 || snap.LastHit.Key != "j" {
		t.Errorf("last hit: %+v", snap.LastHit)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	snap := tr.Snapshot()
	tr.Update([hit.NumButtons]bool{true, true, true, true}, hit.Counts{9, 9, 9, 9}, false)

	if snap.Pressed[0] || snap.Counts[0] != 0 {
		t.Error("earlier snapshot mutated by later update")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	tr.Update([hit.NumButtons]bool{false, true, false, false}, hit.Counts{0, 4, 0, 0}, false)
	tr.SetMQTTConnected(true)

	data := FormatStatusEvent(tr.Snapshot(), "HEARTBEAT", "")

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Event != "HEARTBEAT" {
		t.Errorf("event: got %q", decoded.Status.Event)
	}
	if len(decoded.Status.Pads) != hit.NumButtons {
		t.Fatalf("pads: got %d", len(decoded.Status.Pads))
	}
	if !decoded.Status.Pads[1].Pressed || decoded.Status.Pads[1].Hits != 4 {
		t.Errorf("pad 1: %+v", decoded.Status.Pads[1])
	}
	if decoded.Status.Pads[1].Key != "f" {
		t.Errorf("pad 1 key: got %q", decoded.Status.Pads[1].Key)
	}
	if decoded.Status.TotalHits != 4 {
		t.Errorf("total hits: got %d", decoded.Status.TotalHits)
	}
	if !decoded.Status.MQTT.Connected {
		t.Error("mqtt connected flag lost")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.50", Status: "connected"})

	data := FormatStatusEvent(tr.Snapshot(), "STARTUP", "")
	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Network == nil || decoded.Status.Network.IP != "192.168.1.50" {
		t.Errorf("network: %+v", decoded.Status.Network)
	}
}
