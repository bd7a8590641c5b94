package orchestrator

import (
	"context"

	"github.com/user/pcldump/pkg/capture"
	"github.com/user/pcldump/pkg/ports"
)

// Handoff sits between the job monitor and the renderer. In keep-buffer
// mode the rendered buffer stays on disk, so the monitor would classify it
// as a fresh complete job on its very next cycle; Handoff prevents that by
// pausing the gate after the render, leaving the deferred truncation to the
// next resume.
type Handoff struct {
	sink       ports.RenderSink
	gate       *capture.PauseGate
	logger     ports.Logger
	keepBuffer bool
}

// NewHandoff wraps sink with keep-buffer pause behavior.
func NewHandoff(sink ports.RenderSink, gate *capture.PauseGate, logger ports.Logger, keepBuffer bool) *Handoff {
	return &Handoff{
		sink:       sink,
		gate:       gate,
		logger:     logger,
		keepBuffer: keepBuffer,
	}
}

// JobComplete forwards the job to the renderer, then pauses capture when
// the buffer is being kept.
func (h *Handoff) JobComplete(ctx context.Context, job ports.CompletedJob) error {
	err := h.sink.JobComplete(ctx, job)
	if h.keepBuffer {
		h.logger.Info("Buffer kept on disk; capture paused until resume")
		h.gate.Pause()
	}
	return err
}

var _ ports.RenderSink = (*Handoff)(nil)
