package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/pcldump/pkg/ports"
)

// SourceOptions configures the byte source loop.
type SourceOptions struct {
	// PausePoll is how often the loop rechecks the gate while paused.
	// Low enough to keep resume latency small, high enough not to spin.
	PausePoll time.Duration

	// StartupCommands are written to the line before capture begins,
	// each followed by StartupDelay. Used for bus-initialization
	// handshakes on some transports.
	StartupCommands []string
	StartupDelay    time.Duration
}

// DefaultSourceOptions returns SourceOptions with default values.
func DefaultSourceOptions() SourceOptions {
	return SourceOptions{
		PausePoll:    200 * time.Millisecond,
		StartupDelay: 1200 * time.Millisecond,
	}
}

// Source pulls units from the line one at a time and appends them durably
// to the capture buffer. It owns the buffer's write handle for the whole
// session; nothing else writes.
type Source struct {
	line   ports.LineSource
	buffer ports.CaptureBuffer
	gate   *PauseGate
	logger ports.Logger
	opts   SourceOptions
}

// NewSource creates a byte source reading from line into buffer.
func NewSource(line ports.LineSource, buffer ports.CaptureBuffer, gate *PauseGate, logger ports.Logger, opts SourceOptions) *Source {
	if opts.PausePoll <= 0 {
		opts.PausePoll = DefaultSourceOptions().PausePoll
	}
	return &Source{
		line:   line,
		buffer: buffer,
		gate:   gate,
		logger: logger.WithComponent("source"),
		opts:   opts,
	}
}

// Run executes the capture loop until the context is cancelled or the line
// fails. Each iteration performs exactly one blocking read and one durably
// flushed append; the flush must complete before the next read so the
// monitor never samples a size that trails the line.
func (s *Source) Run(ctx context.Context) error {
	if err := s.sendStartupCommands(ctx); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		if s.gate.Paused() {
			if !sleepCtx(ctx, s.opts.PausePoll) {
				return nil
			}
			continue
		}

		unit, err := s.line.ReadUnit()
		if err != nil {
			// A read unblocked by shutdown is a clean exit.
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("Line read failed: %s", err)
			return fmt.Errorf("read line: %w", err)
		}
		if len(unit) == 0 {
			continue
		}

		// The gate may have been set while the read was blocking. The
		// unit is still appended: it was consumed from the line before
		// the pause took effect, and dropping it would lose bytes.
		if err := s.buffer.Append(unit); err != nil {
			s.logger.Error("Buffer append failed: %s", err)
			return fmt.Errorf("append to buffer: %w", err)
		}
	}
}

// sendStartupCommands writes the configured handshake sequence to the line,
// pausing StartupDelay after each command.
func (s *Source) sendStartupCommands(ctx context.Context) error {
	if len(s.opts.StartupCommands) == 0 {
		return nil
	}
	s.logger.Info("Executing startup commands")
	for _, cmd := range s.opts.StartupCommands {
		display := strings.NewReplacer("\r", "", "\n", "").Replace(cmd)
		s.logger.Debug("Sending startup command %s", display)
		if err := s.line.Send(cmd); err != nil {
			s.logger.Error("Failed to send startup command %s: %s", display, err)
			return fmt.Errorf("send startup command %q: %w", display, err)
		}
		if !sleepCtx(ctx, s.opts.StartupDelay) {
			return nil
		}
	}
	return nil
}

// sleepCtx sleeps for d or until ctx is done. Returns false if cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
