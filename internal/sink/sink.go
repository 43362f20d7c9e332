// Package sink provides append-only line outputs for flight event reports.
package sink

import (
	"errors"
	"log"
)

// Sink appends one line of text to an output.
type Sink interface {
	WriteLine(line string) error
}

// LogSink writes lines through the standard logger.
type LogSink struct {
	Logger *log.Logger // nil uses the package-level logger
}

// WriteLine logs the line.
func (s LogSink) WriteLine(line string) error {
	if s.Logger != nil {
		s.Logger.Print(line)
		return nil
	}
	log.Print(line)
	return nil
}

// Multi writes every line to each sink in order. Every sink is attempted even
// if an earlier one fails; the failures are joined.
type Multi []Sink

// WriteLine fans the line out.
func (m Multi) WriteLine(line string) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteLine(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FakeSink records lines for test assertions.
type FakeSink struct {
	Lines []string

	// WriteError, if set, will be returned by WriteLine (the line is not recorded).
	WriteError error
}

// WriteLine records the line.
func (f *FakeSink) WriteLine(line string) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Lines = append(f.Lines, line)
	return nil
}
