// Package consolestatus renders capture status as a single console line.
package consolestatus

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/pcldump/pkg/ports"
)

// Sink writes status updates to the console. On a terminal the current
// state is repainted in place with a trailing dot animation, so the status
// line stays put while log lines scroll past it; on a pipe only state
// transitions are printed.
type Sink struct {
	out io.Writer
	tty bool

	mu        sync.Mutex
	lastState ports.CaptureState
	lastBytes int64
	seen      bool
}

// New creates a console status sink on stdout.
func New() *Sink {
	return &Sink{
		out: os.Stdout,
		tty: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// NewWriter creates a sink on an arbitrary writer, without animation.
func NewWriter(w io.Writer) *Sink {
	return &Sink{out: w}
}

// Update displays the current capture state.
func (s *Sink) Update(state ports.CaptureState, receivedBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := !s.seen || state != s.lastState || receivedBytes != s.lastBytes
	s.lastState = state
	s.lastBytes = receivedBytes
	s.seen = true

	line := statusLine(state, receivedBytes)
	if s.tty {
		// Repaint in place; the dot count tracks the clock so the
		// operator can see the poller is alive.
		fmt.Fprintf(s.out, "\r\033[2K%s%s", line, dots())
		if state == ports.StateRendering {
			fmt.Fprintln(s.out)
		}
		return
	}
	if changed {
		fmt.Fprintln(s.out, line)
	}
}

// LastCapture displays the completion time of the most recent job.
func (s *Sink) LastCapture(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tty {
		fmt.Fprint(s.out, "\r\033[2K")
	}
	fmt.Fprintln(s.out, l10n.F("Last capture: %s", t.Format("2006-01-02 15:04:05")))
}

// statusLine maps a state to its display text.
func statusLine(state ports.CaptureState, receivedBytes int64) string {
	switch state {
	case ports.StateWaiting:
		return l10n.T("Waiting for input")
	case ports.StateReceiving:
		return l10n.F("Receiving data (%d bytes)", receivedBytes)
	case ports.StateRendering:
		return l10n.T("Job complete, rendering...")
	case ports.StateStopped:
		return l10n.T("Capture paused, idle")
	default:
		return ""
	}
}

// dots returns the animation suffix, one dot per elapsed second of the
// current ten-second window.
func dots() string {
	n := time.Now().Second() % 10
	if n == 0 {
		n = 1
	}
	return strings.Repeat(".", n)
}

var _ ports.StatusSink = (*Sink)(nil)

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Waiting for input":         "入力を待機中",
		"Receiving data (%d bytes)": "データ受信中 (%d バイト)",
		"Job complete, rendering...": "ジョブ完了、レンダリング中...",
		"Capture paused, idle":      "キャプチャ一時停止中",
		"Last capture: %s":          "最終キャプチャ: %s",
	})
}
