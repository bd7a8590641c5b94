package mocks

import (
	"sync"
	"time"

	"github.com/user/pcldump/pkg/ports"
)

// StatusUpdate records one status report.
type StatusUpdate struct {
	State ports.CaptureState
	Bytes int64
}

// StatusSink is a mock implementation of ports.StatusSink.
type StatusSink struct {
	mu sync.Mutex
	// Recorded calls for verification
	Updates      []StatusUpdate
	LastCaptures []time.Time
}

func (m *StatusSink) Update(state ports.CaptureState, receivedBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, StatusUpdate{State: state, Bytes: receivedBytes})
}

func (m *StatusSink) LastCapture(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastCaptures = append(m.LastCaptures, t)
}

// UpdateList returns a copy of the recorded updates.
func (m *StatusSink) UpdateList() []StatusUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatusUpdate{}, m.Updates...)
}

// States returns the distinct sequence of reported states, collapsing
// consecutive repeats.
func (m *StatusSink) States() []ports.CaptureState {
	m.mu.Lock()
	defer m.mu.Unlock()
	var states []ports.CaptureState
	for _, u := range m.Updates {
		if len(states) == 0 || states[len(states)-1] != u.State {
			states = append(states, u.State)
		}
	}
	return states
}

var _ ports.StatusSink = (*StatusSink)(nil)
