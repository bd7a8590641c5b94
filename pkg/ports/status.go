package ports

import "time"

// CaptureState describes what the capture pipeline is currently doing, as
// reported to the observer (console status line, GUI label, ...).
type CaptureState int

const (
	// StateWaiting means the buffer is empty and no job has started.
	StateWaiting CaptureState = iota
	// StateReceiving means the buffer grew since the last sample.
	StateReceiving
	// StateRendering means a job completed and is being converted.
	StateRendering
	// StateStopped means capture is paused by the operator.
	StateStopped
)

// String returns the string representation of the capture state.
func (s CaptureState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateReceiving:
		return "receiving"
	case StateRendering:
		return "rendering"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StatusSink receives capture status updates for display. Updates are
// frequent (one per monitor tick); implementations decide how to throttle
// or animate them.
type StatusSink interface {
	// Update reports the current state and, for StateReceiving and
	// StateRendering, the number of bytes captured so far.
	Update(state CaptureState, receivedBytes int64)

	// LastCapture reports the completion time of the most recent
	// successfully dispatched job.
	LastCapture(t time.Time)
}
