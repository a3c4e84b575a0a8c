package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatHitPayload(t *testing.T) {
	hit := Hit{
		Timestamp: time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		Button:    1,
		Key:       "f",
		Value:     412,
	}

	data, err := FormatHitPayload(hit)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Hit.Button != 1 {
		t.Errorf("button: got %d, want 1", decoded.Hit.Button)
	}
	if decoded.Hit.Key != "f" {
		t.Errorf("key: got %q, want f", decoded.Hit.Key)
	}
	if decoded.Hit.Value != 412 {
		t.Errorf("value: got %v, want 412", decoded.Hit.Value)
	}
	if decoded.Hit.Timestamp != "2026-03-14T09:26:53.589Z" {
		t.Errorf("timestamp: got %q", decoded.Hit.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var decoded SystemPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", decoded.System.Event)
	}
	if decoded.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", decoded.System.Reason)
	}
	if decoded.System.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("timestamp: got %q", decoded.System.Timestamp)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	event := SystemEvent{RawPayload: raw}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	hit := Hit{Timestamp: time.Now(), Button: 0, Key: "d", Value: 99}
	if err := f.PublishHit(hit); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(f.Hits) != 1 || len(f.HitPayloads) != 1 {
		t.Errorf("expected one recorded hit, got %d/%d", len(f.Hits), len(f.HitPayloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("publish system: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("expected one recorded system event")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed set")
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.PublishHit(Hit{}); err == nil {
		t.Error("expected configured error")
	}
	if len(f.Hits) != 0 {
		t.Error("failed publish should not be recorded")
	}
}
