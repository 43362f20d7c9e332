package gpio

// FakeIndicator is a test double that records every level written.
type FakeIndicator struct {
	// Levels contains every value passed to Set, in order.
	Levels []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set (the level is still recorded).
	SetError error
}

// NewFakeIndicator creates a FakeIndicator that starts low.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the level.
func (f *FakeIndicator) Set(high bool) error {
	f.Levels = append(f.Levels, high)
	return f.SetError
}

// High reports the most recently written level (false if never written).
func (f *FakeIndicator) High() bool {
	if len(f.Levels) == 0 {
		return false
	}
	return f.Levels[len(f.Levels)-1]
}

// Close drives the output low and marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.Levels = append(f.Levels, false)
	f.Closed = true
	return nil
}

// Reset clears the recorded levels.
func (f *FakeIndicator) Reset() {
	f.Levels = nil
	f.Closed = false
	f.SetError = nil
}
