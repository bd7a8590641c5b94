package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/pcldump/pkg/adapters/logger"
	"github.com/user/pcldump/pkg/mocks"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestSource_AppendsUnitsToBuffer(t *testing.T) {
	units := make(chan []byte, 16)
	line := mocks.NewLineSource()
	line.ReadUnitFunc = func() ([]byte, error) {
		u, ok := <-units
		if !ok {
			return nil, errors.New("line closed")
		}
		return u, nil
	}
	buf := mocks.NewCaptureBuffer()

	src := NewSource(line, buf, NewPauseGate(), logger.NewNoop(), DefaultSourceOptions())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		src.Run(ctx)
	}()

	for _, b := range []byte{0x1b, 'E', 0x00} {
		units <- []byte{b}
	}

	if !waitFor(t, time.Second, func() bool { return buf.Len() == 3 }) {
		t.Fatalf("expected 3 bytes in buffer, got %d", buf.Len())
	}

	cancel()
	close(units)
	<-done
}

func TestSource_PauseStopsConsumption(t *testing.T) {
	var reads atomic.Int64
	line := mocks.NewLineSource()
	line.ReadUnitFunc = func() ([]byte, error) {
		reads.Add(1)
		return []byte{0x42}, nil
	}
	buf := mocks.NewCaptureBuffer()
	gate := NewPauseGate()
	gate.Pause()

	opts := DefaultSourceOptions()
	opts.PausePoll = 5 * time.Millisecond
	src := NewSource(line, buf, gate, logger.NewNoop(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		src.Run(ctx)
	}()

	// While paused the source must not touch the line at all.
	time.Sleep(50 * time.Millisecond)
	if n := reads.Load(); n != 0 {
		t.Errorf("expected no reads while paused, got %d", n)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty buffer while paused, got %d bytes", buf.Len())
	}

	// Resume and the reads start within one poll interval.
	gate.Resume()
	if !waitFor(t, time.Second, func() bool { return reads.Load() > 0 }) {
		t.Error("expected reads to start after resume")
	}

	cancel()
	<-done
}

func TestSource_SendsStartupCommands(t *testing.T) {
	line := mocks.NewLineSource()
	buf := mocks.NewCaptureBuffer()

	opts := DefaultSourceOptions()
	opts.StartupCommands = []string{"++srqauto 1\r\n", "++read\r\n", "++read\r\n"}
	opts.StartupDelay = time.Millisecond
	src := NewSource(line, buf, NewPauseGate(), logger.NewNoop(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		src.Run(ctx)
	}()

	if !waitFor(t, time.Second, func() bool { return len(line.Sent()) == 3 }) {
		t.Fatalf("expected 3 startup commands, got %d", len(line.Sent()))
	}
	sent := line.Sent()
	if sent[0] != "++srqauto 1\r\n" {
		t.Errorf("unexpected first startup command %q", sent[0])
	}

	cancel()
	line.Close()
	<-done
}

func TestSource_StartupSendFailureIsFatal(t *testing.T) {
	line := mocks.NewLineSource()
	line.SendFunc = func(cmd string) error { return errors.New("bus error") }
	buf := mocks.NewCaptureBuffer()

	opts := DefaultSourceOptions()
	opts.StartupCommands = []string{"++read\r\n"}
	opts.StartupDelay = time.Millisecond
	src := NewSource(line, buf, NewPauseGate(), logger.NewNoop(), opts)

	if err := src.Run(context.Background()); err == nil {
		t.Error("expected error from failed startup command")
	}
}

func TestSource_ReadErrorAfterCancelIsClean(t *testing.T) {
	line := mocks.NewLineSource()
	buf := mocks.NewCaptureBuffer()
	src := NewSource(line, buf, NewPauseGate(), logger.NewNoop(), DefaultSourceOptions())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx) }()

	// Shutdown order as the orchestrator does it: cancel, then close the
	// line to unblock the pending read.
	time.Sleep(10 * time.Millisecond)
	cancel()
	line.Close()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean exit, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("source did not stop after cancel")
	}
}

func TestSource_ReadErrorWhileRunningIsFatal(t *testing.T) {
	line := mocks.NewLineSource()
	line.ReadUnitFunc = func() ([]byte, error) { return nil, errors.New("device gone") }
	buf := mocks.NewCaptureBuffer()
	src := NewSource(line, buf, NewPauseGate(), logger.NewNoop(), DefaultSourceOptions())

	if err := src.Run(context.Background()); err == nil {
		t.Error("expected error when the line fails mid-capture")
	}
}
