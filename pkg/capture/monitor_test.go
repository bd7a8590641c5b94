package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/pcldump/pkg/adapters/logger"
	"github.com/user/pcldump/pkg/mocks"
	"github.com/user/pcldump/pkg/ports"
)

func testMonitorOptions() MonitorOptions {
	return MonitorOptions{
		Window:    15 * time.Millisecond,
		PausePoll: 5 * time.Millisecond,
	}
}

func TestMonitor_ReportsWaitingWhileEmpty(t *testing.T) {
	buf := mocks.NewCaptureBuffer()
	sink := &mocks.RenderSink{}
	status := &mocks.StatusSink{}
	m := NewMonitor(buf, NewPauseGate(), sink, status, logger.NewNoop(), testMonitorOptions())

	// An empty buffer across many cycles never completes.
	for i := 0; i < 5; i++ {
		if err := m.cycle(context.Background()); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	if jobs := sink.JobList(); len(jobs) != 0 {
		t.Errorf("expected no completions, got %d", len(jobs))
	}
	for _, u := range status.UpdateList() {
		if u.State != ports.StateWaiting {
			t.Errorf("expected only waiting updates, got %v", u.State)
		}
	}
	if m.State() != JobIdle {
		t.Errorf("expected idle state, got %v", m.State())
	}
}

func TestMonitor_CompletesAfterSilence(t *testing.T) {
	buf := mocks.NewCaptureBuffer()
	buf.Append(make([]byte, 100))

	sink := &mocks.RenderSink{}
	// The renderer contract: the buffer is cleared before the hand-off
	// returns, so the next cycle starts from an empty buffer.
	sink.JobCompleteFunc = func(ctx context.Context, job ports.CompletedJob) error {
		return buf.Truncate()
	}
	status := &mocks.StatusSink{}
	m := NewMonitor(buf, NewPauseGate(), sink, status, logger.NewNoop(), testMonitorOptions())

	if err := m.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	jobs := sink.JobList()
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one completion, got %d", len(jobs))
	}
	if jobs[0].Size != 100 {
		t.Errorf("expected 100-byte job, got %d", jobs[0].Size)
	}
	if jobs[0].BufferPath == "" {
		t.Error("expected buffer path in completed job")
	}

	// Nothing left to complete on the following cycles.
	for i := 0; i < 3; i++ {
		if err := m.cycle(context.Background()); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}
	if jobs := sink.JobList(); len(jobs) != 1 {
		t.Errorf("expected one completion total, got %d", len(jobs))
	}
}

func TestMonitor_NeverCompletesWhileGrowing(t *testing.T) {
	buf := mocks.NewCaptureBuffer()
	sink := &mocks.RenderSink{}
	sink.JobCompleteFunc = func(ctx context.Context, job ports.CompletedJob) error {
		return buf.Truncate()
	}
	status := &mocks.StatusSink{}
	opts := MonitorOptions{Window: 30 * time.Millisecond, PausePoll: 5 * time.Millisecond}
	m := NewMonitor(buf, NewPauseGate(), sink, status, logger.NewNoop(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	// Appends with gaps far below the window: completion must not fire
	// while the producer is active.
	stop := make(chan struct{})
	appendDone := make(chan struct{})
	go func() {
		defer close(appendDone)
		for {
			select {
			case <-stop:
				return
			case <-time.After(2 * time.Millisecond):
				buf.Append([]byte{0x55})
			}
		}
	}()

	time.Sleep(150 * time.Millisecond)
	if jobs := sink.JobList(); len(jobs) != 0 {
		t.Errorf("completion fired while appends were ongoing (%d jobs)", len(jobs))
	}

	// Producer goes silent; exactly one completion follows.
	close(stop)
	<-appendDone
	if !waitFor(t, time.Second, func() bool { return len(sink.JobList()) == 1 }) {
		t.Fatalf("expected one completion after silence, got %d", len(sink.JobList()))
	}

	time.Sleep(100 * time.Millisecond)
	if jobs := sink.JobList(); len(jobs) != 1 {
		t.Errorf("expected no further completions, got %d", len(jobs))
	}

	cancel()
	<-done
}

func TestMonitor_ExternallyClearedBufferIsNoop(t *testing.T) {
	var calls atomic.Int64
	buf := mocks.NewCaptureBuffer()
	buf.SizeFunc = func() (int64, error) {
		if calls.Add(1) == 1 {
			return 50, nil
		}
		return 0, nil
	}
	sink := &mocks.RenderSink{}
	m := NewMonitor(buf, NewPauseGate(), sink, &mocks.StatusSink{}, logger.NewNoop(), testMonitorOptions())

	if err := m.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if jobs := sink.JobList(); len(jobs) != 0 {
		t.Errorf("expected no completion for externally cleared buffer, got %d", len(jobs))
	}
	if m.State() != JobIdle {
		t.Errorf("expected idle state, got %v", m.State())
	}
}

func TestMonitor_PausedSkipsSampling(t *testing.T) {
	var samples atomic.Int64
	buf := mocks.NewCaptureBuffer()
	buf.SizeFunc = func() (int64, error) {
		samples.Add(1)
		return 10, nil
	}
	gate := NewPauseGate()
	gate.Pause()
	status := &mocks.StatusSink{}
	m := NewMonitor(buf, gate, &mocks.RenderSink{}, status, logger.NewNoop(), testMonitorOptions())

	for i := 0; i < 4; i++ {
		if err := m.cycle(context.Background()); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}

	if n := samples.Load(); n != 0 {
		t.Errorf("expected no size sampling while paused, got %d samples", n)
	}
	updates := status.UpdateList()
	if len(updates) != 4 {
		t.Fatalf("expected 4 stopped reports, got %d", len(updates))
	}
	for _, u := range updates {
		if u.State != ports.StateStopped {
			t.Errorf("expected stopped state, got %v", u.State)
		}
	}
}

func TestMonitor_PauseDuringWindowDiscardsCycle(t *testing.T) {
	var samples atomic.Int64
	gate := NewPauseGate()
	buf := mocks.NewCaptureBuffer()
	buf.SizeFunc = func() (int64, error) {
		// Pause lands between the two samples of the cycle.
		if samples.Add(1) == 1 {
			gate.Pause()
		}
		return 10, nil
	}
	sink := &mocks.RenderSink{}
	m := NewMonitor(buf, gate, sink, &mocks.StatusSink{}, logger.NewNoop(), testMonitorOptions())

	if err := m.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if n := samples.Load(); n != 1 {
		t.Errorf("expected second sample to be skipped, got %d samples", n)
	}
	if jobs := sink.JobList(); len(jobs) != 0 {
		t.Errorf("expected no completion from a paused cycle, got %d", len(jobs))
	}
}

func TestMonitor_HandoffIsSynchronous(t *testing.T) {
	var samples atomic.Int64
	buf := mocks.NewCaptureBuffer()
	buf.SizeFunc = func() (int64, error) {
		samples.Add(1)
		return 64, nil
	}

	release := make(chan struct{})
	rendering := make(chan struct{}, 1)
	sink := &mocks.RenderSink{}
	sink.JobCompleteFunc = func(ctx context.Context, job ports.CompletedJob) error {
		rendering <- struct{}{}
		<-release
		return nil
	}
	m := NewMonitor(buf, NewPauseGate(), sink, &mocks.StatusSink{}, logger.NewNoop(), testMonitorOptions())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	<-rendering
	before := samples.Load()

	// While the renderer holds the job, sampling must not proceed: a
	// second completion against the same bytes would double-render.
	time.Sleep(60 * time.Millisecond)
	if after := samples.Load(); after != before {
		t.Errorf("monitor sampled during render: %d -> %d", before, after)
	}

	close(release)
	cancel()
	<-done
}

func TestMonitor_RenderErrorDoesNotStopMonitor(t *testing.T) {
	buf := mocks.NewCaptureBuffer()
	buf.Append([]byte{1, 2, 3})
	sink := &mocks.RenderSink{}
	sink.JobCompleteFunc = func(ctx context.Context, job ports.CompletedJob) error {
		buf.Truncate()
		return errors.New("converter exploded")
	}
	m := NewMonitor(buf, NewPauseGate(), sink, &mocks.StatusSink{}, logger.NewNoop(), testMonitorOptions())

	if err := m.cycle(context.Background()); err != nil {
		t.Fatalf("cycle should swallow render errors, got %v", err)
	}
	if err := m.cycle(context.Background()); err != nil {
		t.Fatalf("next cycle: %v", err)
	}
}
