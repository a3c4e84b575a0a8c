// Command taiko-sensor turns drum pad strikes into key presses, MIDI notes
// and MQTT telemetry, with LED feedback on the drum itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/taiko-sensor/internal/gpio"
	"github.com/sweeney/taiko-sensor/internal/hit"
	"github.com/sweeney/taiko-sensor/internal/keys"
	"github.com/sweeney/taiko-sensor/internal/led"
	"github.com/sweeney/taiko-sensor/internal/link"
	"github.com/sweeney/taiko-sensor/internal/mqtt"
	"github.com/sweeney/taiko-sensor/internal/sensor"
	"github.com/sweeney/taiko-sensor/internal/status"
	"github.com/sweeney/taiko-sensor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	device := flag.String("device", "", "Serial device override")
	broker := flag.String("broker", "", `MQTT broker override ("off" disables)`)
	httpAddr := flag.String("http", "", `HTTP status address override ("off" disables)`)
	poll := flag.Duration("poll", 100*time.Millisecond, "Function button polling interval")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printState := flag.Bool("print-state", false, "Print one sensor frame and exit")

	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		cfg = loaded
	}
	applyOverrides(&cfg, *device, *broker, *httpAddr)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: config: %v", err)
	}

	if err := run(cfg, *poll, *heartbeat, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides merges flag overrides into the loaded config. Empty flag
// values leave the config alone; "off" disables optional surfaces.
func applyOverrides(cfg *Config, device, broker, httpAddr string) {
	if device != "" {
		cfg.Serial.Device = device
	}
	switch broker {
	case "":
	case "off":
		cfg.MQTT.Broker = ""
	default:
		cfg.MQTT.Broker = broker
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = httpAddr
	}
}

func run(cfg Config, poll, heartbeat time.Duration, printState bool) error {
	// Open the MCU link
	port, err := link.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
	if err != nil {
		return fmt.Errorf("open serial: %w", err)
	}
	defer port.Close()
	reader := sensor.NewLinkReader(port)

	// Print state mode
	if printState {
		reading, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("pads: %v dt: %v\n", reading.Values, reading.Delta)
		return nil
	}

	// Build the emission chain
	var emitters keys.MultiEmitter
	if cfg.Keys.Enabled {
		kb, err := keys.NewUinputEmitter(cfg.BindingArray())
		if err != nil {
			return fmt.Errorf("init keyboard: %w", err)
		}
		emitters = append(emitters, kb)
	}
	if cfg.MIDI.Enabled {
		m, err := keys.NewMIDIEmitter(cfg.MIDI.Port, cfg.MIDI.Channel, cfg.NotesArray())
		if err != nil {
			return fmt.Errorf("init midi: %w", err)
		}
		emitters = append(emitters, m)
	}
	defer emitters.Close()

	// LED feedback
	var driver *led.Driver
	if cfg.LEDs.Enabled {
		ledCfg, err := cfg.LEDConfig()
		if err != nil {
			return fmt.Errorf("led config: %w", err)
		}
		driver, err = led.NewDriver(led.NewLinkStrip(port), ledCfg)
		if err != nil {
			return fmt.Errorf("init leds: %w", err)
		}
	}

	var feedback keys.StateSink
	if driver != nil {
		feedback = driver
	}
	debouncer := keys.NewDebouncer(emitters, feedback)

	// Function button
	var button gpio.Reader
	if cfg.Button.Pin >= 0 {
		b, err := gpio.NewRealReader(cfg.Button.Pin)
		if err != nil {
			return fmt.Errorf("init button: %w", err)
		}
		defer b.Close()
		button = b
	}

	// MQTT telemetry. A broker that is down at startup is not fatal: hits
	// queue in the publisher and drain on reconnect, but a refused initial
	// connection means running without telemetry.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			log.Printf("mqtt unavailable, continuing without telemetry: %v", err)
		} else {
			defer p.Close()
			publisher = p
			mqttStatus = p
		}
	}

	binding := displayBinding(cfg)

	tracker := status.NewTracker(time.Now(), status.Config{
		WindowMs:    cfg.Detection.WindowMs,
		HoldMs:      cfg.Detection.HoldMs,
		Threshold:   cfg.Detection.Threshold,
		HeartbeatMs: heartbeat.Milliseconds(),
		Device:      cfg.Serial.Device,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		Keys:        binding,
		MIDI:        cfg.MIDI.Enabled,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// HTTP status server with live feed
	var hub *web.Hub
	if cfg.HTTP.Addr != "" {
		hub = web.NewHub()
		srv := web.New(cfg.HTTP.Addr, tracker, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: device=%s window=%v hold=%v threshold=%d broker=%s",
		cfg.Serial.Device, cfg.Window(), cfg.Hold(), cfg.Detection.Threshold, cfg.MQTT.Broker)

	readings := make(chan sensor.Reading, 16)
	go pumpReadings(reader, readings)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	arb := hit.NewArbiter[int](cfg.Window(), cfg.Hold(), cfg.Detection.Threshold)
	return runLoop(readings, button, arb, debouncer, driver, publisher, mqttStatus,
		tracker, hub, binding, heartbeat, time.Now, ticker.C, sigCh)
}

// displayBinding returns the key labels used in hit logs, telemetry and
// the status page. A MIDI-only deployment may carry no keyboard binding,
// so empty pads fall back to the default labels.
func displayBinding(cfg Config) [hit.NumButtons]string {
	binding := cfg.BindingArray()
	for i, k := range binding {
		if k == "" {
			binding[i] = keys.DefaultBinding[i]
		}
	}
	return binding
}

// pumpReadings feeds sensor frames into the run loop. Read errors end the
// pump; the loop keeps serving its other sources so a yanked cable leaves
// the status page and the shutdown path alive.
func pumpReadings(reader sensor.Reader, readings chan<- sensor.Reading) {
	for {
		reading, err := reader.Read()
		if err != nil {
			log.Printf("sensor read error: %v", err)
			close(readings)
			return
		}
		readings <- reading
	}
}

func runLoop(readings <-chan sensor.Reading, button gpio.Reader, arb *hit.Arbiter[int],
	debouncer *keys.Debouncer, driver *led.Driver, publisher mqtt.Publisher,
	mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, hub *web.Hub,
	binding [hit.NumButtons]string, heartbeat time.Duration,
	now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {

	lastHeartbeat := now()
	buttonDown := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if err := debouncer.ReleaseAll(); err != nil {
				log.Printf("release all: %v", err)
			}
			if driver != nil {
				driver.SetMuted(true)
				if err := driver.Flush(); err != nil {
					log.Printf("led flush: %v", err)
				}
			}
			if publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					snap := tracker.Snapshot()
					event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case reading, ok := <-readings:
			if !ok {
				// Sensor pump died. Let everything up, then keep the
				// status surfaces running until a signal arrives.
				if err := debouncer.ReleaseAll(); err != nil {
					log.Printf("release all: %v", err)
				}
				if driver != nil {
					if err := driver.Flush(); err != nil {
						log.Printf("led flush: %v", err)
					}
				}
				readings = nil
				continue
			}

			t := now()
			for _, ev := range arb.Process(reading.Values, reading.Delta) {
				switch ev.Type {
				case hit.EventPress:
					log.Printf("hit: pad=%d key=%s value=%.0f", ev.Button, binding[ev.Button], ev.Value)
					if err := debouncer.Press(ev.Button, ev.Value); err != nil {
						log.Printf("press error: %v", err)
					}
					if tracker != nil {
						tracker.RecordHit(status.HitInfo{
							Button: ev.Button,
							Key:    binding[ev.Button],
							Value:  ev.Value,
							At:     t,
						})
					}
					if publisher != nil {
						err := publisher.PublishHit(mqtt.Hit{
							Timestamp: t,
							Button:    ev.Button,
							Key:       binding[ev.Button],
							Value:     ev.Value,
						})
						if err != nil {
							log.Printf("publish error: %v", err)
						}
					}
					if hub != nil {
						hub.Broadcast("hit", t, web.HitData{
							Button: ev.Button,
							Key:    binding[ev.Button],
							Value:  ev.Value,
						})
					}
				case hit.EventRelease:
					if err := debouncer.Release(ev.Button); err != nil {
						log.Printf("release error: %v", err)
					}
					if hub != nil {
						hub.Broadcast("release", t, web.ReleaseData{Button: ev.Button})
					}
				}
			}
			if driver != nil {
				if err := driver.Flush(); err != nil {
					log.Printf("led flush: %v", err)
				}
			}
			if tracker != nil {
				tracker.Update(pressedStates(debouncer), arb.HitCounts(), driver != nil && driver.Muted())
			}

		case <-tick:
			t := now()

			// Function button: falling edge toggles LED mute and clears
			// any stuck keys.
			if button != nil {
				pressed, err := button.Read()
				if err != nil {
					log.Printf("button read error: %v", err)
				} else {
					if pressed && !buttonDown {
						if err := debouncer.ReleaseAll(); err != nil {
							log.Printf("release all: %v", err)
						}
						if driver != nil {
							driver.SetMuted(!driver.Muted())
							if err := driver.Flush(); err != nil {
								log.Printf("led flush: %v", err)
							}
							log.Printf("button: leds muted=%v", driver.Muted())
						} else {
							log.Printf("button: released all keys")
						}
						if tracker != nil {
							tracker.Update(pressedStates(debouncer), arb.HitCounts(), driver != nil && driver.Muted())
						}
					}
					buttonDown = pressed
				}
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					log.Printf("heartbeat: uptime=%v hits=%d", snap.Uptime(), snap.TotalHits())
				}
				if publisher != nil {
					if err := publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}
		}
	}
}

func pressedStates(debouncer *keys.Debouncer) [hit.NumButtons]bool {
	var pressed [hit.NumButtons]bool
	for i := range pressed {
		pressed[i] = debouncer.Pressed(i)
	}
	return pressed
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
