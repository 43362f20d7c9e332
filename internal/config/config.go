// Package config loads the launcher daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/launcher-inertial/internal/gpio"
	"github.com/sweeney/launcher-inertial/internal/imu"
	"github.com/sweeney/launcher-inertial/internal/launcher"
	"github.com/sweeney/launcher-inertial/internal/logic"
	"github.com/sweeney/launcher-inertial/internal/madgwick"
	"github.com/sweeney/launcher-inertial/internal/sink"
)

// Config is the daemon configuration, one section per subsystem.
type Config struct {
	Sensor     SensorConfig     `yaml:"sensor"`
	Indicators IndicatorsConfig `yaml:"indicators"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Attitude   AttitudeConfig   `yaml:"attitude"`
	Loop       LoopConfig       `yaml:"loop"`
	Serial     SerialConfig     `yaml:"serial"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	HTTP       HTTPConfig       `yaml:"http"`
	Sim        SimConfig        `yaml:"sim"`
}

// SensorConfig selects the IMU on the I2C bus and its ranges and sample rate.
type SensorConfig struct {
	I2CBus      string  `yaml:"i2c_bus"`
	I2CAddr     uint16  `yaml:"i2c_addr"`
	AccelRange  float64 `yaml:"accel_range"`
	GyroRange   float64 `yaml:"gyro_range"`
	FrequencyHz int     `yaml:"frequency_hz"`
}

// IndicatorsConfig names the GPIO chip and the lines driving the two signal outputs.
type IndicatorsConfig struct {
	Chip          string `yaml:"chip"`
	PropulsionPin int    `yaml:"propulsion_pin"`
	AttitudePin   int    `yaml:"attitude_pin"`
}

// VehicleConfig holds the rocket parameters that set the thrust-integral threshold.
// Gravity is m/s^2; MountingOffsetG is added to the filtered X-axis reading.
type VehicleConfig struct {
	Gravity         float64 `yaml:"gravity"`
	Thrust          float64 `yaml:"thrust"`
	Isp             float64 `yaml:"isp"`
	Mass            float64 `yaml:"mass"`
	BurnRate        float64 `yaml:"burn_rate"`
	MountingOffsetG float64 `yaml:"mounting_offset_g"`
}

// AttitudeConfig bounds the pitch window in degrees. SetupFilter is the EMA
// coefficient and Beta the Madgwick gain.
type AttitudeConfig struct {
	MinDeg      float64 `yaml:"min_deg"`
	MaxDeg      float64 `yaml:"max_deg"`
	SetupFilter float64 `yaml:"setup_filter"`
	Beta        float64 `yaml:"beta"`
}

// LoopConfig controls the per-cycle gain. FixedGain 0 means the gain is the
// measured cycle time in microseconds.
type LoopConfig struct {
	FixedGain float64 `yaml:"fixed_gain"`
}

// SerialConfig enables the UART log sink when Port is set.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// MQTTConfig points the publisher at a broker. Heartbeat 0 disables the
// periodic status message.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	ClientID  string        `yaml:"client_id"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTPConfig enables the status server when Addr is set.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// SimConfig describes the synthetic launch used with -sim.
type SimConfig struct {
	PitchDeg      float64       `yaml:"pitch_deg"`
	IgnitionAfter time.Duration `yaml:"ignition_after"`
	Burn          time.Duration `yaml:"burn"`
	AccelG        float64       `yaml:"accel_g"`
}

// Default returns the configuration used when a key is absent.
func Default() Config {
	sc := logic.DefaultSensorConfig()
	v := logic.DefaultVehicle()
	w := logic.DefaultAttitudeWindow()
	return Config{
		Sensor: SensorConfig{
			I2CAddr:     imu.AddrPrimary,
			AccelRange:  sc.AccelRange,
			GyroRange:   sc.GyroRange,
			FrequencyHz: sc.FrequencyHz,
		},
		Indicators: IndicatorsConfig{
			Chip:          gpio.DefaultChip,
			PropulsionPin: gpio.DefaultPinPropulsion,
			AttitudePin:   gpio.DefaultPinAttitude,
		},
		Vehicle: VehicleConfig{
			Gravity:         v.Gravity,
			Thrust:          v.Thrust,
			Isp:             v.Isp,
			Mass:            v.Mass,
			BurnRate:        v.BurnRate,
			MountingOffsetG: v.MountingOffsetG,
		},
		Attitude: AttitudeConfig{
			MinDeg:      w.MinDeg,
			MaxDeg:      w.MaxDeg,
			SetupFilter: w.SetupFilter,
			Beta:        madgwick.DefaultBeta,
		},
		Serial: SerialConfig{Baud: sink.DefaultBaud},
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			ClientID:  "launcher-inertial",
			Heartbeat: 60 * time.Second,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Sim: SimConfig{
			PitchDeg:      75,
			IgnitionAfter: 2 * time.Second,
			Burn:          1500 * time.Millisecond,
			AccelG:        6,
		},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Sensor.FrequencyHz <= 0 {
		return fmt.Errorf("sensor.frequency_hz must be > 0")
	}
	if c.Sensor.AccelRange <= 0 {
		return fmt.Errorf("sensor.accel_range must be > 0")
	}
	if c.Sensor.GyroRange <= 0 {
		return fmt.Errorf("sensor.gyro_range must be > 0")
	}
	if c.Indicators.PropulsionPin == c.Indicators.AttitudePin {
		return fmt.Errorf("indicators.propulsion_pin and indicators.attitude_pin must differ")
	}
	if c.Vehicle.Mass <= 0 {
		return fmt.Errorf("vehicle.mass must be > 0")
	}
	if c.Attitude.MinDeg > c.Attitude.MaxDeg {
		return fmt.Errorf("attitude.min_deg must be <= attitude.max_deg")
	}
	if c.Attitude.SetupFilter <= 0 {
		return fmt.Errorf("attitude.setup_filter must be > 0")
	}
	if c.Loop.FixedGain < 0 {
		return fmt.Errorf("loop.fixed_gain must be >= 0")
	}
	if c.Serial.Port != "" && c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be > 0 when serial.port is set")
	}
	if c.MQTT.Heartbeat < 0 {
		return fmt.Errorf("mqtt.heartbeat must be >= 0")
	}
	if c.Sim.IgnitionAfter < 0 || c.Sim.Burn < 0 {
		return fmt.Errorf("sim.ignition_after and sim.burn must be >= 0")
	}
	return nil
}

// Launcher returns the pipeline parameters.
func (c Config) Launcher() launcher.Config {
	return launcher.Config{
		Sensor: logic.SensorConfig{
			AccelRange:  c.Sensor.AccelRange,
			GyroRange:   c.Sensor.GyroRange,
			FrequencyHz: c.Sensor.FrequencyHz,
		},
		Vehicle: logic.Vehicle{
			Gravity:         c.Vehicle.Gravity,
			Thrust:          c.Vehicle.Thrust,
			Isp:             c.Vehicle.Isp,
			Mass:            c.Vehicle.Mass,
			BurnRate:        c.Vehicle.BurnRate,
			MountingOffsetG: c.Vehicle.MountingOffsetG,
		},
		Window: logic.AttitudeWindow{
			MinDeg:      c.Attitude.MinDeg,
			MaxDeg:      c.Attitude.MaxDeg,
			SetupFilter: c.Attitude.SetupFilter,
		},
	}
}

// SimProfile converts the sim durations into sample counts at the
// configured frequency.
func (c Config) SimProfile() imu.SimProfile {
	hz := float64(c.Sensor.FrequencyHz)
	return imu.SimProfile{
		PitchDeg:      c.Sim.PitchDeg,
		IgnitionAfter: int(c.Sim.IgnitionAfter.Seconds() * hz),
		BurnSamples:   int(c.Sim.Burn.Seconds() * hz),
		BoostG:        c.Sim.AccelG,
	}
}
