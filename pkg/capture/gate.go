// Package capture implements the capture core: the pause gate shared by the
// workers, the byte source feeding the buffer, and the job monitor that
// infers job boundaries from buffer growth.
package capture

import "sync/atomic"

// PauseGate is the process-wide pause signal. It is the only mutable state
// shared by more than one worker without external serialization, so it is
// backed by an atomic flag. Repeated Pause/Resume calls collapse to the
// latest state; there is no queuing.
//
// Clearing the buffer on resume is sequenced by the caller (truncate while
// still paused, then Resume), keeping the gate itself free of side effects.
type PauseGate struct {
	paused atomic.Bool
}

// NewPauseGate returns a gate in the running (not paused) state.
func NewPauseGate() *PauseGate {
	return &PauseGate{}
}

// Pause sets the signal. Idempotent.
func (g *PauseGate) Pause() {
	g.paused.Store(true)
}

// Resume clears the signal. Idempotent.
func (g *PauseGate) Resume() {
	g.paused.Store(false)
}

// Paused reports the current state without blocking.
func (g *PauseGate) Paused() bool {
	return g.paused.Load()
}
