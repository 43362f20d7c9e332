package imu

import (
	"errors"

	"github.com/sweeney/launcher-inertial/internal/logic"
)

// FakeSensor is a test double that returns scripted samples.
type FakeSensor struct {
	// Samples contains scripted readings to return.
	// Each call to ReadMotion() consumes the next sample.
	Samples []logic.RawSample

	// index tracks current position in Samples
	index int

	// Reads counts calls to ReadMotion.
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by ReadMotion()
	ReadError error
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples []logic.RawSample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// ReadMotion returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSensor) ReadMotion() (logic.RawSample, error) {
	f.Reads++
	if f.ReadError != nil {
		return logic.RawSample{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return logic.RawSample{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the first sample.
func (f *FakeSensor) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
