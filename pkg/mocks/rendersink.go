package mocks

import (
	"context"
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

// RenderSink is a mock implementation of ports.RenderSink.
type RenderSink struct {
	JobCompleteFunc func(ctx context.Context, job ports.CompletedJob) error

	mu sync.Mutex
	// Recorded calls for verification
	Jobs []ports.CompletedJob
}

func (m *RenderSink) JobComplete(ctx context.Context, job ports.CompletedJob) error {
	m.mu.Lock()
	m.Jobs = append(m.Jobs, job)
	m.mu.Unlock()
	if m.JobCompleteFunc != nil {
		return m.JobCompleteFunc(ctx, job)
	}
	return nil
}

// JobList returns a copy of the recorded jobs.
func (m *RenderSink) JobList() []ports.CompletedJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.CompletedJob{}, m.Jobs...)
}

var _ ports.RenderSink = (*RenderSink)(nil)
