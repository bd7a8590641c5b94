package consolestatus

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/user/pcldump/pkg/ports"
)

func countLines(buf *bytes.Buffer) int {
	s := strings.TrimRight(buf.String(), "\n")
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

func TestSink_PipePrintsOnlyTransitions(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	// Repeated identical updates collapse to one line on a pipe.
	s.Update(ports.StateWaiting, 0)
	s.Update(ports.StateWaiting, 0)
	s.Update(ports.StateWaiting, 0)
	if n := countLines(&buf); n != 1 {
		t.Errorf("expected 1 line for repeated waiting, got %d", n)
	}

	s.Update(ports.StateReceiving, 10)
	if n := countLines(&buf); n != 2 {
		t.Errorf("expected transition line, got %d lines", n)
	}

	// A byte-count change is a visible progress step.
	s.Update(ports.StateReceiving, 20)
	if n := countLines(&buf); n != 3 {
		t.Errorf("expected progress line, got %d lines", n)
	}
	s.Update(ports.StateReceiving, 20)
	if n := countLines(&buf); n != 3 {
		t.Errorf("expected no line for unchanged state, got %d", n)
	}
}

func TestSink_ReceivingShowsByteCount(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	s.Update(ports.StateReceiving, 4096)
	if !strings.Contains(buf.String(), "4096") {
		t.Errorf("expected byte count in status line, got %q", buf.String())
	}
}

func TestSink_LastCapture(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)

	s.LastCapture(time.Date(2026, 8, 24, 14, 30, 5, 0, time.UTC))
	if !strings.Contains(buf.String(), "2026-08-24 14:30:05") {
		t.Errorf("expected capture timestamp, got %q", buf.String())
	}
}
