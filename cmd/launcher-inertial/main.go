// Command launcher-inertial samples the launcher IMU, latches propulsion
// shutdown from the thrust integral and gates launch attitude, driving two
// indicator outputs and publishing signal changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/launcher-inertial/internal/config"
	"github.com/sweeney/launcher-inertial/internal/gpio"
	"github.com/sweeney/launcher-inertial/internal/imu"
	"github.com/sweeney/launcher-inertial/internal/launcher"
	"github.com/sweeney/launcher-inertial/internal/logic"
	"github.com/sweeney/launcher-inertial/internal/madgwick"
	"github.com/sweeney/launcher-inertial/internal/mqtt"
	"github.com/sweeney/launcher-inertial/internal/sink"
	"github.com/sweeney/launcher-inertial/internal/status"
	"github.com/sweeney/launcher-inertial/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (empty uses built-in defaults)")
	sim := flag.Bool("sim", false, "Use the simulated launch profile instead of the IMU")
	printSample := flag.Bool("print-sample", false, "Print one scaled IMU sample and exit")
	httpAddr := flag.String("http", "", `HTTP status address, overrides http.addr ("off" disables)`)
	broker := flag.String("broker", "", "MQTT broker address, overrides mqtt.broker")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("fatal: load config: %v", err)
		}
	}
	applyOverrides(&cfg, *httpAddr, *broker)

	if err := run(cfg, *sim, *printSample); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func applyOverrides(cfg *config.Config, httpAddr, broker string) {
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = httpAddr
	}
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
}

func run(cfg config.Config, sim, printSample bool) error {
	lc := cfg.Launcher()

	var sensor imu.Sensor
	if sim {
		sensor = imu.NewSimSensor(lc.Sensor, cfg.SimProfile())
	} else {
		dev, err := imu.Open(cfg.Sensor.I2CBus, cfg.Sensor.I2CAddr, lc.Sensor)
		if err != nil {
			return fmt.Errorf("init imu: %w", err)
		}
		sensor = dev
	}
	defer sensor.Close()

	if printSample {
		return writeSample(os.Stdout, sensor, lc.Sensor)
	}

	propLED, attLED, err := openIndicators(cfg.Indicators, sim)
	if err != nil {
		return err
	}
	defer closeIndicator("propulsion", propLED)
	defer closeIndicator("attitude", attLED)

	reports := sink.Multi{sink.LogSink{}}
	if cfg.Serial.Port != "" {
		s, err := sink.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return fmt.Errorf("init serial sink: %w", err)
		}
		defer s.Close()
		reports = append(reports, s)
	}

	l, err := launcher.New(lc, launcher.Deps{
		Sensor:        sensor,
		Orientation:   madgwick.New(float64(lc.Sensor.FrequencyHz), cfg.Attitude.Beta),
		Clock:         launcher.NewSystemClock(),
		PropulsionLED: propLED,
		AttitudeLED:   attLED,
		Sink:          reports,
	})
	if err != nil {
		return fmt.Errorf("init launcher: %w", err)
	}

	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	defer publisher.Close()

	// Tracker exists before STARTUP so the snapshot is available.
	tracker := status.NewTracker(time.Now(), status.Config{
		FrequencyHz: lc.Sensor.FrequencyHz,
		AccelRange:  lc.Sensor.AccelRange,
		GyroRange:   lc.Sensor.GyroRange,
		FixedGain:   cfg.Loop.FixedGain,
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		Simulated:   sim,
	})
	tracker.Update(l.State(), 0)

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

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	period := time.Second / time.Duration(lc.Sensor.FrequencyHz)
	log.Printf("started: freq=%dHz threshold=%.3f window=[%v,%v] broker=%s heartbeat=%v sim=%v",
		lc.Sensor.FrequencyHz, lc.Vehicle.Threshold(), lc.Window.MinDeg, lc.Window.MaxDeg,
		cfg.MQTT.Broker, cfg.MQTT.Heartbeat, sim)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	opts := loopOptions{FixedGain: cfg.Loop.FixedGain, Heartbeat: cfg.MQTT.Heartbeat}
	return runLoop(l, publisher, publisher, tracker, opts, time.Now, ticker.C, sigCh)
}

// loopOptions are the run loop's tunables. FixedGain 0 selects the measured
// cycle time in microseconds; Heartbeat 0 disables heartbeats.
type loopOptions struct {
	FixedGain float64
	Heartbeat time.Duration
}

func runLoop(l *launcher.Launcher, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, opts loopOptions, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	last := now()
	lastHeartbeat := last

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
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			gain := cycleGain(opts.FixedGain, t.Sub(last))
			last = t

			if err := l.Step(gain); err != nil {
				// Filtered state is untouched; the next cycle's gain
				// covers the skipped interval.
				log.Printf("imu read error: %v", err)
				tracker.RecordReadError()
				continue
			}

			for _, event := range l.Events() {
				log.Printf("event: %s (t=%ds propulsion=%v attitude=%v tilt=%.1f)",
					event.Type, event.SecondsSinceBoot, event.Propulsion, event.Attitude, event.TiltDeg)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			tracker.Update(l.State(), gain)
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if opts.Heartbeat > 0 && t.Sub(lastHeartbeat) >= opts.Heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v cycles=%d state=%s tilt=%.1f",
					snap.Uptime().Truncate(time.Second), snap.Pipeline.Cycles,
					snap.Pipeline.PropulsionState, snap.Pipeline.TiltDeg)
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// cycleGain returns fixed when set, otherwise elapsed in microseconds.
func cycleGain(fixed float64, elapsed time.Duration) float64 {
	if fixed > 0 {
		return fixed
	}
	return float64(elapsed.Microseconds())
}

func openIndicators(cfg config.IndicatorsConfig, sim bool) (gpio.Indicator, gpio.Indicator, error) {
	if sim {
		return &logIndicator{name: "propulsion"}, &logIndicator{name: "attitude"}, nil
	}
	prop, err := gpio.NewRealIndicator(cfg.Chip, cfg.PropulsionPin)
	if err != nil {
		return nil, nil, fmt.Errorf("init propulsion indicator: %w", err)
	}
	att, err := gpio.NewRealIndicator(cfg.Chip, cfg.AttitudePin)
	if err != nil {
		prop.Close()
		return nil, nil, fmt.Errorf("init attitude indicator: %w", err)
	}
	return prop, att, nil
}

func closeIndicator(name string, ind gpio.Indicator) {
	if err := ind.Close(); err != nil {
		log.Printf("close %s indicator: %v", name, err)
	}
}

// logIndicator stands in for a GPIO line in simulation and logs level changes.
type logIndicator struct {
	name  string
	level bool
	set   bool
}

func (i *logIndicator) Set(high bool) error {
	if !i.set || high != i.level {
		log.Printf("indicator %s -> %v", i.name, high)
	}
	i.level, i.set = high, true
	return nil
}

func (i *logIndicator) Close() error {
	return i.Set(false)
}

func writeSample(w io.Writer, sensor imu.Sensor, cfg logic.SensorConfig) error {
	raw, err := sensor.ReadMotion()
	if err != nil {
		return fmt.Errorf("read imu: %w", err)
	}
	c := logic.NewFilter(cfg).Scale(raw)
	_, err = fmt.Fprintf(w, "accel: %.4f %.4f %.4f g\ngyro: %.3f %.3f %.3f deg/s\n",
		c.Ax, c.Ay, c.Az, c.Gx, c.Gy, c.Gz)
	return err
}
