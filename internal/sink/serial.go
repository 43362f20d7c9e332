package sink

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaud matches the flight computer's console rate.
const DefaultBaud = 115200

// SerialSink writes CRLF-terminated lines to a UART.
type SerialSink struct {
	port io.WriteCloser
	name string
}

// OpenSerial opens portName at baud (8N1).
func OpenSerial(portName string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", portName, err)
	}
	return &SerialSink{port: p, name: portName}, nil
}

// NewSerialSink wraps an already-open port.
func NewSerialSink(port io.WriteCloser, name string) *SerialSink {
	return &SerialSink{port: port, name: name}
}

// WriteLine writes line followed by CRLF.
func (s *SerialSink) WriteLine(line string) error {
	if _, err := io.WriteString(s.port, line+"\r\n"); err != nil {
		return fmt.Errorf("write serial %s: %w", s.name, err)
	}
	return nil
}

// Close closes the port.
func (s *SerialSink) Close() error {
	return s.port.Close()
}
