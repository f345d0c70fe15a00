// Package buzzer drives the alert output that mirrors the detector's decision.
//
// The output is written once per processed frame with the current alert
// state. Writes are not debounced; a flickering detection produces a
// flickering output.
package buzzer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ironsheep/blob-alert/internal/log"
)

// Output is a binary alert sink.
type Output interface {
	// Set drives the output active (true) or inactive (false).
	Set(active bool) error
	// Close releases the output. It does not change the output level.
	Close() error
}

// ShutdownState selects what happens to the output when monitoring stops.
type ShutdownState string

const (
	// ShutdownOff drives the output inactive on exit.
	ShutdownOff ShutdownState = "off"
	// ShutdownOn drives the output active on exit.
	ShutdownOn ShutdownState = "on"
	// ShutdownKeep leaves the last written level in place.
	ShutdownKeep ShutdownState = "keep"
)

// ParseShutdownState parses "off", "on" or "keep" (case-insensitive).
// An empty string selects ShutdownOff.
func ParseShutdownState(s string) (ShutdownState, error) {
	switch st := ShutdownState(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return ShutdownOff, nil
	case ShutdownOff, ShutdownOn, ShutdownKeep:
		return st, nil
	default:
		return "", fmt.Errorf("invalid shutdown state %q: want off, on or keep", s)
	}
}

// Apply writes the shutdown level to out. ShutdownKeep writes nothing.
func (s ShutdownState) Apply(out Output) error {
	switch s {
	case ShutdownOn:
		return out.Set(true)
	case ShutdownKeep:
		return nil
	default:
		return out.Set(false)
	}
}

// LogOutput is a dry-run output. It logs state transitions instead of
// driving hardware.
type LogOutput struct {
	mu     sync.Mutex
	state  bool
	primed bool
}

// NewLogOutput creates a dry-run output.
func NewLogOutput() *LogOutput {
	return &LogOutput{}
}

// Set logs the new state when it differs from the previous one.
func (o *LogOutput) Set(active bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.primed && o.state == active {
		return nil
	}
	o.state, o.primed = active, true
	log.Info("buzzer", "active", active)
	return nil
}

// Close is a no-op.
func (o *LogOutput) Close() error {
	return nil
}

// Recorder is an in-memory output that records every write.
type Recorder struct {
	mu     sync.Mutex
	writes []bool
	closed bool

	// Err, when set, is returned by every Set call after recording the write.
	Err error
}

// Set records the write.
func (r *Recorder) Set(active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, active)
	return r.Err
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Writes returns a copy of every value written so far.
func (r *Recorder) Writes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.writes...)
}

// Last returns the most recent write and whether there was one.
func (r *Recorder) Last() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return false, false
	}
	return r.writes[len(r.writes)-1], true
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
