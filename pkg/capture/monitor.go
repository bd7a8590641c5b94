package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/user/pcldump/pkg/ports"
)

// JobState is the monitor's working state across poll iterations. It is
// derived from two consecutive size samples and never stored persistently.
type JobState int

const (
	// JobIdle means no bytes have arrived since the last reset.
	JobIdle JobState = iota
	// JobReceiving means the buffer grew since the previous sample.
	JobReceiving
	// JobComplete means the size held steady across a full inactivity
	// window while non-zero.
	JobComplete
)

// String returns the string representation of the job state.
func (s JobState) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobReceiving:
		return "receiving"
	case JobComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// MonitorOptions configures the job monitor's timing.
type MonitorOptions struct {
	// Window is the inactivity window T: the duration of unchanged,
	// non-zero buffer size required to declare a job complete.
	Window time.Duration

	// PausePoll is the cadence of "stopped" status reports while the
	// gate is set. No size sampling happens during pause.
	PausePoll time.Duration
}

// DefaultMonitorOptions returns MonitorOptions with default values.
func DefaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		Window:    2 * time.Second,
		PausePoll: 200 * time.Millisecond,
	}
}

// Monitor polls the capture buffer's size on a fixed cadence and classifies
// the job as idle, receiving or complete. It is the sole author of
// completion events and never mutates the buffer itself.
//
// The completion heuristic is: no growth across one full window while bytes
// exist. A producer that stalls mid-transfer for longer than the window is
// indistinguishable from a finished job; that limitation comes with the
// wire format (no job markers exist on the line) and is intentionally not
// papered over.
type Monitor struct {
	buffer ports.CaptureBuffer
	gate   *PauseGate
	sink   ports.RenderSink
	status ports.StatusSink
	logger ports.Logger
	opts   MonitorOptions

	state JobState
}

// NewMonitor creates a job monitor observing buffer.
func NewMonitor(buffer ports.CaptureBuffer, gate *PauseGate, sink ports.RenderSink, status ports.StatusSink, logger ports.Logger, opts MonitorOptions) *Monitor {
	def := DefaultMonitorOptions()
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.PausePoll <= 0 {
		opts.PausePoll = def.PausePoll
	}
	return &Monitor{
		buffer: buffer,
		gate:   gate,
		sink:   sink,
		status: status,
		logger: logger.WithComponent("monitor"),
		opts:   opts,
		state:  JobIdle,
	}
}

// State returns the monitor's current job state.
func (m *Monitor) State() JobState {
	return m.state
}

// Run executes poll cycles until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := m.cycle(ctx); err != nil {
			return err
		}
	}
	return nil
}

// cycle performs one sampling iteration: two size samples separated by the
// inactivity window, and the resulting state transition.
func (m *Monitor) cycle(ctx context.Context) error {
	if m.gate.Paused() {
		m.status.Update(ports.StateStopped, 0)
		sleepCtx(ctx, m.opts.PausePoll)
		return nil
	}

	s0, err := m.buffer.Size()
	if err != nil {
		return fmt.Errorf("sample buffer size: %w", err)
	}
	if s0 == 0 {
		m.status.Update(ports.StateWaiting, 0)
	}

	if !sleepCtx(ctx, m.opts.Window) {
		return nil
	}

	// The gate may have been set during the window; a sample taken now
	// would race the resume-time truncation, so the cycle is discarded.
	if m.gate.Paused() {
		return nil
	}

	s1, err := m.buffer.Size()
	if err != nil {
		return fmt.Errorf("sample buffer size: %w", err)
	}
	if s1 == 0 {
		// Externally cleared buffer mid-cycle. A no-op tick, not an
		// error: declaring completion here would render nothing.
		m.state = JobIdle
		return nil
	}

	if s0 == 0 {
		m.logger.Info("Starting job processing")
	}

	if s1 == s0 {
		m.state = JobComplete
		m.logger.Info("Job complete (%d bytes), rendering", s1)
		m.status.Update(ports.StateRendering, s1)
		job := ports.CompletedJob{
			BufferPath:  m.buffer.Path(),
			Size:        s1,
			CompletedAt: time.Now(),
		}
		// Synchronous hand-off: sampling must not resume until the
		// renderer has consumed and reset the buffer, or a second
		// completion would fire against stale data mid-render.
		if err := m.sink.JobComplete(ctx, job); err != nil {
			m.logger.Error("Render dispatch failed: %s", err)
		}
		m.state = JobIdle
		return nil
	}

	m.state = JobReceiving
	m.status.Update(ports.StateReceiving, s1)
	return nil
}
