package imu

import (
	"fmt"
	"time"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

var sleep = time.Sleep

// Minimal BMI160 driver (the IMU on the Intel Curie module).
//
// Focus: probe, program ODR + full-scale ranges, burst read of gyro+accel.
// Data registers are little-endian, gyro block first.

const (
	AddrPrimary   = 0x68
	AddrSecondary = 0x69

	regChipID   = 0x00
	chipIDValue = 0xD1
	regErr      = 0x02
	regGyroX    = 0x0C // 0x0C..0x11 gyro, 0x12..0x17 accel
	regAccConf  = 0x40
	regAccRange = 0x41
	regGyrConf  = 0x42
	regGyrRange = 0x43
	regCmd      = 0x7E

	cmdSoftReset  = 0xB6
	cmdAccNormal  = 0x11
	cmdGyroNormal = 0x15

	// acc_bwp / gyr_bwp = normal mode.
	bwpNormal = 0x20
)

var accRangeCodes = map[float64]byte{
	2:  0x03,
	4:  0x05,
	8:  0x08,
	16: 0x0C,
}

var gyroRangeCodes = map[float64]byte{
	2000: 0x00,
	1000: 0x01,
	500:  0x02,
	250:  0x03,
	125:  0x04,
}

// Gyro supports 25..3200 Hz; accel goes lower but shares the table here.
var odrCodes = map[int]byte{
	25:   0x06,
	50:   0x07,
	100:  0x08,
	200:  0x09,
	400:  0x0A,
	800:  0x0B,
	1600: 0x0C,
	3200: 0x0D,
}

// regIO is a combined write-then-read transaction on the sensor's address.
// periph.io's *i2c.Dev satisfies it.
type regIO interface {
	Tx(w, r []byte) error
}

// BMI160 is a configured sensor.
type BMI160 struct {
	dev    regIO
	closer func() error
	cfg    logic.SensorConfig
}

// NewBMI160 probes and configures the sensor behind dev.
func NewBMI160(dev regIO, cfg logic.SensorConfig) (*BMI160, error) {
	if dev == nil {
		return nil, fmt.Errorf("bmi160: dev is nil")
	}
	d := &BMI160{dev: dev, cfg: cfg}

	accRange, ok := accRangeCodes[cfg.AccelRange]
	if !ok {
		return nil, fmt.Errorf("bmi160: unsupported accel range %vg", cfg.AccelRange)
	}
	gyroRange, ok := gyroRangeCodes[cfg.GyroRange]
	if !ok {
		return nil, fmt.Errorf("bmi160: unsupported gyro range %vdps", cfg.GyroRange)
	}
	odr, ok := odrCodes[cfg.FrequencyHz]
	if !ok {
		return nil, fmt.Errorf("bmi160: unsupported sample rate %dHz", cfg.FrequencyHz)
	}

	id, err := d.readReg(regChipID)
	if err != nil {
		return nil, fmt.Errorf("bmi160: chip id read failed: %w", err)
	}
	if id != chipIDValue {
		return nil, fmt.Errorf("bmi160: chip id=0x%02X want 0x%02X", id, chipIDValue)
	}

	if err := d.writeReg(regCmd, cmdSoftReset); err != nil {
		return nil, fmt.Errorf("bmi160: reset failed: %w", err)
	}
	sleep(15 * time.Millisecond)

	// Power-up: accel needs ~4ms, gyro ~80ms to leave suspend.
	if err := d.writeReg(regCmd, cmdAccNormal); err != nil {
		return nil, fmt.Errorf("bmi160: accel power-up failed: %w", err)
	}
	sleep(5 * time.Millisecond)
	if err := d.writeReg(regCmd, cmdGyroNormal); err != nil {
		return nil, fmt.Errorf("bmi160: gyro power-up failed: %w", err)
	}
	sleep(80 * time.Millisecond)

	writes := []struct {
		reg, val byte
		what     string
	}{
		{regAccConf, bwpNormal | odr, "accel rate"},
		{regAccRange, accRange, "accel range"},
		{regGyrConf, bwpNormal | odr, "gyro rate"},
		{regGyrRange, gyroRange, "gyro range"},
	}
	for _, w := range writes {
		if err := d.writeReg(w.reg, w.val); err != nil {
			return nil, fmt.Errorf("bmi160: %s config failed: %w", w.what, err)
		}
	}

	errReg, err := d.readReg(regErr)
	if err != nil {
		return nil, fmt.Errorf("bmi160: error register read failed: %w", err)
	}
	if errReg != 0 {
		return nil, fmt.Errorf("bmi160: configuration rejected, err_reg=0x%02X", errReg)
	}

	return d, nil
}

// Config returns the configuration programmed into the sensor.
func (d *BMI160) Config() logic.SensorConfig {
	return d.cfg
}

// ReadMotion burst-reads gyro and accel data registers.
func (d *BMI160) ReadMotion() (logic.RawSample, error) {
	if d == nil {
		return logic.RawSample{}, fmt.Errorf("bmi160: device is nil")
	}

	var buf [12]byte
	if err := d.dev.Tx([]byte{regGyroX}, buf[:]); err != nil {
		return logic.RawSample{}, fmt.Errorf("bmi160: read sensors failed: %w", err)
	}

	return logic.RawSample{
		Gx: le16(buf[0], buf[1]),
		Gy: le16(buf[2], buf[3]),
		Gz: le16(buf[4], buf[5]),
		Ax: le16(buf[6], buf[7]),
		Ay: le16(buf[8], buf[9]),
		Az: le16(buf[10], buf[11]),
	}, nil
}

// Close releases the underlying bus, if owned.
func (d *BMI160) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	err := d.closer()
	d.closer = nil
	return err
}

func (d *BMI160) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.dev.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *BMI160) writeReg(reg, value byte) error {
	return d.dev.Tx([]byte{reg, value}, nil)
}

func le16(lo, hi byte) int16 {
	return int16(uint16(lo) | uint16(hi)<<8)
}
