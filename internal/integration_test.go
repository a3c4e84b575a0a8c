package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/taiko-sensor/internal/hit"
	"github.com/sweeney/taiko-sensor/internal/keys"
	"github.com/sweeney/taiko-sensor/internal/led"
	"github.com/sweeney/taiko-sensor/internal/link"
	"github.com/sweeney/taiko-sensor/internal/mqtt"
	"github.com/sweeney/taiko-sensor/internal/sensor"
)

const frameMicros = 2000 // 2ms between MCU frames, roughly the real rate

func sensorFrame(values [hit.NumButtons]int) link.Frame {
	var d link.SensorData
	for i, v := range values {
		d.Values[i] = uint16(v)
	}
	d.DeltaMicros = frameMicros
	return link.Frame{Cmd: link.CmdSensorData, Payload: link.SensorDataPayload(d)}
}

// drive runs the detection pipeline over every frame the port has
// scripted, the way the daemon's run loop does: decode, arbitrate,
// debounce, publish, flush.
func drive(t *testing.T, port *link.FakePort, arb *hit.Arbiter[int], deb *keys.Debouncer,
	driver *led.Driver, pub *mqtt.FakePublisher, binding [hit.NumButtons]string) {
	t.Helper()
	reader := sensor.NewLinkReader(port)
	for {
		reading, err := reader.Read()
		if errors.Is(err, link.ErrNoFrames) {
			return
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, ev := range arb.Process(reading.Values, reading.Delta) {
			switch ev.Type {
			case hit.EventPress:
				if err := deb.Press(ev.Button, ev.Value); err != nil {
					t.Fatalf("press: %v", err)
				}
				if err := pub.PublishHit(mqtt.Hit{
					Timestamp: time.Now(),
					Button:    ev.Button,
					Key:       binding[ev.Button],
					Value:     ev.Value,
				}); err != nil {
					t.Fatalf("publish: %v", err)
				}
			case hit.EventRelease:
				if err := deb.Release(ev.Button); err != nil {
					t.Fatalf("release: %v", err)
				}
			}
		}
		if err := driver.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
	}
}

// TestIntegrationSingleStrike runs a complete strike through every layer:
// scripted wire frames in, one key press and release and one lit-then-dark
// LED region out.
func TestIntegrationSingleStrike(t *testing.T) {
	frames := []link.Frame{
		sensorFrame([hit.NumButtons]int{0, 0, 0, 0}),
		// Strike on pad 1 with crosstalk on pad 2. Three frames cover the
		// 5ms window at 2ms per frame.
		sensorFrame([hit.NumButtons]int{0, 120, 40, 0}),
		sensorFrame([hit.NumButtons]int{0, 300, 80, 0}),
		sensorFrame([hit.NumButtons]int{0, 10, 0, 0}),
	}
	// Silence long enough to run out the 20ms hold.
	for i := 0; i < 12; i++ {
		frames = append(frames, sensorFrame([hit.NumButtons]int{}))
	}

	port := link.NewFakePort(frames)
	arb := hit.NewArbiter[int](5*time.Millisecond, 20*time.Millisecond, 15)
	strip := led.NewFakeStrip()
	driver, err := led.NewDriver(strip, led.DefaultConfig())
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	emitter := keys.NewFakeEmitter()
	deb := keys.NewDebouncer(emitter, driver)
	pub := mqtt.NewFakePublisher()

	drive(t, port, arb, deb, driver, pub, keys.DefaultBinding)

	// Exactly one press on the winning pad, with the tracked maximum.
	if len(emitter.Downs) != 1 {
		t.Fatalf("downs: got %d, want 1: %+v", len(emitter.Downs), emitter.Downs)
	}
	if emitter.Downs[0].Button != 1 || emitter.Downs[0].Value != 300 {
		t.Errorf("down: %+v", emitter.Downs[0])
	}
	if len(emitter.Ups) != 1 || emitter.Ups[0] != 1 {
		t.Errorf("ups: %v", emitter.Ups)
	}

	// The pad's region went to its color and back to off.
	region := led.DefaultConfig().Regions[1]
	color, ok := strip.LastFor(region.Start, region.End)
	if !ok {
		t.Fatal("no staging for pad 1 region")
	}
	if color != led.Off {
		t.Errorf("final color: %+v, want off", color)
	}

	// One hit published with the bound key.
	if len(pub.Hits) != 1 {
		t.Fatalf("published hits: got %d", len(pub.Hits))
	}
	if pub.Hits[0].Button != 1 || pub.Hits[0].Key != "f" || pub.Hits[0].Value != 300 {
		t.Errorf("hit: %+v", pub.Hits[0])
	}

	if counts := arb.HitCounts(); counts != (hit.Counts{0, 1, 0, 0}) {
		t.Errorf("counts: %v", counts)
	}
}

// TestIntegrationSoftTouchIgnored feeds a window whose maximum stays under
// the trigger threshold. Nothing downstream should fire.
func TestIntegrationSoftTouchIgnored(t *testing.T) {
	frames := []link.Frame{
		sensorFrame([hit.NumButtons]int{3, 0, 0, 0}),
		sensorFrame([hit.NumButtons]int{8, 0, 0, 0}),
		sensorFrame([hit.NumButtons]int{2, 0, 0, 0}),
		sensorFrame([hit.NumButtons]int{}),
		sensorFrame([hit.NumButtons]int{}),
	}

	port := link.NewFakePort(frames)
	arb := hit.NewArbiter[int](5*time.Millisecond, 20*time.Millisecond, 15)
	strip := led.NewFakeStrip()
	driver, err := led.NewDriver(strip, led.DefaultConfig())
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	emitter := keys.NewFakeEmitter()
	deb := keys.NewDebouncer(emitter, driver)
	pub := mqtt.NewFakePublisher()

	drive(t, port, arb, deb, driver, pub, keys.DefaultBinding)

	if len(emitter.Downs) != 0 || len(emitter.Ups) != 0 {
		t.Errorf("emissions: downs=%v ups=%v", emitter.Downs, emitter.Ups)
	}
	if len(pub.Hits) != 0 {
		t.Errorf("published hits: %+v", pub.Hits)
	}
	// Only the initial all-off staging from driver construction transmits.
	if strip.Transmits != 1 {
		t.Errorf("transmits: got %d, want 1", strip.Transmits)
	}
}

// TestIntegrationRoll alternates strikes on two pads and checks the
// debouncer keeps press/release strictly paired per pad.
func TestIntegrationRoll(t *testing.T) {
	strike := func(pad, value int) []link.Frame {
		var v [hit.NumButtons]int
		v[pad] = value
		fs := []link.Frame{
			sensorFrame(v),
			sensorFrame(v),
			sensorFrame([hit.NumButtons]int{}),
		}
		for i := 0; i < 12; i++ {
			fs = append(fs, sensorFrame([hit.NumButtons]int{}))
		}
		return fs
	}

	var frames []link.Frame
	frames = append(frames, strike(1, 200)...)
	frames = append(frames, strike(2, 250)...)
	frames = append(frames, strike(1, 180)...)

	port := link.NewFakePort(frames)
	arb := hit.NewArbiter[int](5*time.Millisecond, 20*time.Millisecond, 15)
	strip := led.NewFakeStrip()
	driver, err := led.NewDriver(strip, led.DefaultConfig())
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	emitter := keys.NewFakeEmitter()
	deb := keys.NewDebouncer(emitter, driver)
	pub := mqtt.NewFakePublisher()

	drive(t, port, arb, deb, driver, pub, keys.DefaultBinding)

	wantDowns := []keys.Emission{{Button: 1, Value: 200}, {Button: 2, Value: 250}, {Button: 1, Value: 180}}
	if len(emitter.Downs) != len(wantDowns) {
		t.Fatalf("downs: got %+v", emitter.Downs)
	}
	for i, want := range wantDowns {
		if emitter.Downs[i] != want {
			t.Errorf("down %d: got %+v, want %+v", i, emitter.Downs[i], want)
		}
	}
	if len(emitter.Ups) != 3 {
		t.Errorf("ups: %v", emitter.Ups)
	}
	if counts := arb.HitCounts(); counts != (hit.Counts{0, 2, 1, 0}) {
		t.Errorf("counts: %v", counts)
	}
	if deb.Pressed(1) || deb.Pressed(2) {
		t.Error("pads still pressed after silence")
	}
}
