// Package orchestrator coordinates the capture workers and the operator
// command loop.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/user/pcldump/pkg/capture"
	"github.com/user/pcldump/pkg/ports"
)

// Command is an operator command consumed from any controller, terminal
// hotkeys or otherwise.
type Command int

const (
	// CommandPause suspends capture and monitoring.
	CommandPause Command = iota
	// CommandResume clears the buffer and restarts capture. A resume
	// always begins a logically new job.
	CommandResume
	// CommandShowParams logs the operating parameters.
	CommandShowParams
	// CommandShowHelp logs the hotkey help.
	CommandShowHelp
	// CommandQuit terminates all workers and returns from Run.
	CommandQuit
)

// Params holds the operating parameters for display on request.
type Params struct {
	LineAddress string
	LineSpeed   int
	Window      time.Duration
	BufferPath  string
	KeepBuffer  bool

	Format        string
	ConverterBin  string
	ConverterArgs []string
	OutputDir     string
	Prefix        string
	Preview       bool
	ViewerCmd     string
}

// Orchestrator owns the long-running workers (byte source and job monitor)
// and serializes operator commands against the shared pause gate. No global
// lock serializes the workers; safety comes from the buffer access
// discipline (one writer, one truncator, size-only readers) plus the atomic
// gate.
type Orchestrator struct {
	source  *capture.Source
	monitor *capture.Monitor
	gate    *capture.PauseGate
	buffer  ports.CaptureBuffer
	line    ports.LineSource
	logger  ports.Logger
	params  Params
}

// New creates an orchestrator over fully wired components.
func New(source *capture.Source, monitor *capture.Monitor, gate *capture.PauseGate, buffer ports.CaptureBuffer, line ports.LineSource, logger ports.Logger, params Params) *Orchestrator {
	return &Orchestrator{
		source:  source,
		monitor: monitor,
		gate:    gate,
		buffer:  buffer,
		line:    line,
		logger:  logger,
		params:  params,
	}
}

// Run starts the workers and serves the command loop until a quit command,
// a closed command channel, context cancellation, or a fatal worker error.
// On return all workers have stopped and the line is closed; the buffer is
// never left partially truncated.
func (o *Orchestrator) Run(ctx context.Context, commands <-chan Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := o.source.Run(ctx); err != nil {
			errCh <- fmt.Errorf("byte source: %w", err)
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := o.monitor.Run(ctx); err != nil {
			errCh <- fmt.Errorf("job monitor: %w", err)
			cancel()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case cmd, ok := <-commands:
			if !ok {
				break loop
			}
			if cmd == CommandQuit {
				o.logger.Info("Quit received, exiting")
				break loop
			}
			o.handle(cmd)
		}
	}

	cancel()
	// Closing the line unblocks a read the source may be parked in.
	if err := o.line.Close(); err != nil {
		o.logger.Debug("Line close: %s", err)
	}
	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// handle applies one non-quit command.
func (o *Orchestrator) handle(cmd Command) {
	switch cmd {
	case CommandPause:
		o.logger.Info("Pausing capture")
		o.gate.Pause()
	case CommandResume:
		o.resume()
	case CommandShowParams:
		o.showParams()
	case CommandShowHelp:
		o.showHelp()
	}
}

// resume restarts capture after a pause. The buffer is truncated before the
// gate clears, so the source cannot append to a stale job: an in-progress
// job interrupted by pause is discarded, and a buffer preserved by
// keep-buffer mode gets its deferred truncation here.
func (o *Orchestrator) resume() {
	if !o.gate.Paused() {
		return
	}
	o.logger.Info("Resuming capture")
	if err := o.buffer.Truncate(); err != nil {
		o.logger.Error("Failed to clear buffer on resume: %s", err)
		return
	}
	o.gate.Resume()
}

// showParams logs the operating parameters.
func (o *Orchestrator) showParams() {
	p := o.params
	o.logger.Info("Line params: %s @ %d using a %s timeout", p.LineAddress, p.LineSpeed, p.Window)
	persistence := "without persistence"
	if p.KeepBuffer {
		persistence = "with persistence"
	}
	o.logger.Info("Buffer on disk: %s %s", p.BufferPath, persistence)
	o.logger.Info("Render options: %s (using %q with %q)", strings.ToUpper(p.Format), p.ConverterBin, strings.Join(p.ConverterArgs, " "))
	o.logger.Info("File storage: %s (using %q as the prefix)", p.OutputDir, p.Prefix)
	o.logger.Info("Preview: %t (using %q to display files)", p.Preview, p.ViewerCmd)
}

// showHelp logs the hotkey help.
func (o *Orchestrator) showHelp() {
	o.logger.Info("Help:")
	o.logger.Info("H or F1    [H]elp")
	o.logger.Info("P          [P]ause capture")
	o.logger.Info("R          [R]esume capture")
	o.logger.Info("I          Display [i]nformation")
	o.logger.Info("Q          [Q]uit pcldump")
}
