// Package render turns a finished capture buffer into a named output
// artifact by dispatching external converter processes.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/pcldump/pkg/ports"
)

// timestampLayout names output files with one-second resolution. Two jobs
// completing within the same second collide; acceptable for a device that
// takes seconds to transfer a single job.
const timestampLayout = "2006-01-02_15:04:05"

// Options configures the renderer.
type Options struct {
	// Converter invocation: ConverterBin ConverterArgs... <output> <buffer>.
	ConverterBin  string
	ConverterArgs []string

	// Output naming: <OutputDir>/<Prefix><timestamp>.<Format>.
	OutputDir string
	Prefix    string
	Format    string // Output extension: "pdf" (default) or "png"

	// Phosphor post-process, raster output only:
	// PhosphorBin <output> PhosphorArgs... <output> (in-place).
	Phosphor     bool
	PhosphorBin  string
	PhosphorArgs []string

	// Preview launches ViewerCmd <output> after a successful conversion.
	Preview   bool
	ViewerCmd string

	// KeepBuffer leaves the buffer on disk after rendering for manual
	// inspection or batch jobs. Truncation is then deferred to the next
	// resume.
	KeepBuffer bool
}

// Renderer consumes completed jobs: it invokes the converter, optionally
// post-processes and previews the result, and clears the buffer so the next
// job starts empty. It is the only actor permitted to shrink the buffer
// during normal operation.
//
// All per-job failures are reported and swallowed here; a failed conversion
// never stops capture, and its buffer is still cleared so the pipeline does
// not wedge.
type Renderer struct {
	runner ports.ProcessRunner
	buffer ports.CaptureBuffer
	status ports.StatusSink
	logger ports.Logger
	opts   Options

	mu          sync.Mutex
	lastCapture time.Time
}

// New creates a renderer dispatching through runner and clearing buffer
// between jobs.
func New(runner ports.ProcessRunner, buffer ports.CaptureBuffer, status ports.StatusSink, logger ports.Logger, opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = "pdf"
	}
	return &Renderer{
		runner: runner,
		buffer: buffer,
		status: status,
		logger: logger.WithComponent("render"),
		opts:   opts,
	}
}

// LastCapture returns the completion time of the most recent job, or the
// zero time if none has completed yet.
func (r *Renderer) LastCapture() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastCapture
}

// JobComplete renders one finished job. The error return is reserved for
// buffer reset failures; converter and post-process failures are reported
// but do not fail the job, so bookkeeping always advances.
func (r *Renderer) JobComplete(ctx context.Context, job ports.CompletedJob) error {
	outputPath := r.outputPath(job.CompletedAt)

	converted := true
	args := append(append([]string{}, r.opts.ConverterArgs...), outputPath, job.BufferPath)
	if err := r.runner.Run(ctx, r.opts.ConverterBin, args...); err != nil {
		r.logger.Error("Failed to convert capture using %s: %s", r.opts.ConverterBin, err)
		converted = false
	}

	if converted && r.opts.Format == "png" && r.opts.Phosphor {
		r.logger.Info("Phosphor mode enabled, processing")
		args := append(append([]string{outputPath}, r.opts.PhosphorArgs...), outputPath)
		if err := r.runner.Run(ctx, r.opts.PhosphorBin, args...); err != nil {
			r.logger.Error("Failed to run phosphor processing on %s: %s", outputPath, err)
		}
	}

	if converted && r.opts.Preview {
		r.logger.Info("Rendered %s, launching viewer", outputPath)
		if err := r.runner.Run(ctx, r.opts.ViewerCmd, outputPath); err != nil {
			r.logger.Warn("Failed to launch viewer %s: %s", r.opts.ViewerCmd, err)
		}
	} else if converted {
		r.logger.Info("Rendered %s", outputPath)
	}

	if r.opts.KeepBuffer {
		r.logger.Info("Keeping buffer on disk for inspection")
	} else if err := r.buffer.Truncate(); err != nil {
		return fmt.Errorf("clear buffer: %w", err)
	} else {
		r.logger.Debug("Cleared buffer on disk")
	}

	r.mu.Lock()
	r.lastCapture = job.CompletedAt
	r.mu.Unlock()
	r.status.LastCapture(job.CompletedAt)

	return nil
}

// outputPath computes the per-job output filename.
func (r *Renderer) outputPath(t time.Time) string {
	name := r.opts.Prefix + t.Format(timestampLayout) + "." + r.opts.Format
	return filepath.Join(r.opts.OutputDir, name)
}

var _ ports.RenderSink = (*Renderer)(nil)
