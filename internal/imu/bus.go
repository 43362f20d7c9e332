package imu

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

// Open initialises the host drivers, opens the named I2C bus ("" selects the
// first available) and configures a BMI160 at addr. The returned sensor owns
// the bus and closes it on Close.
func Open(bus string, addr uint16, cfg logic.SensorConfig) (*BMI160, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}

	d, err := NewBMI160(&i2c.Dev{Bus: b, Addr: addr}, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	d.closer = b.Close
	return d, nil
}
