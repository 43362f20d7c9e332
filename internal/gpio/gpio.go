// Package gpio drives the launcher's indicator outputs with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Indicator is a single digital output.
type Indicator interface {
	// Set drives the output high (true) or low (false).
	Set(high bool) error

	// Close drives the output low and releases it.
	Close() error
}

// Default pin definitions (BCM numbering).
const (
	DefaultChip          = "gpiochip0"
	DefaultPinPropulsion = 17
	DefaultPinAttitude   = 27
)
