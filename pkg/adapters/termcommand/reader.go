// Package termcommand reads operator hotkeys from the terminal and turns
// them into orchestrator commands.
package termcommand

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/user/pcldump/pkg/orchestrator"
	"github.com/user/pcldump/pkg/ports"
)

// Reader maps single keystrokes to commands: [P]ause, [R]esume,
// [I]nformation, [H]elp (or F1), [Q]uit. When stdin is a terminal it is
// switched to raw mode so keys take effect without Enter; otherwise input
// is read line by line, which keeps scripted control working.
type Reader struct {
	in     *os.File
	logger ports.Logger

	mu    sync.Mutex
	state *term.State
}

// New creates a reader on stdin.
func New(logger ports.Logger) *Reader {
	return &Reader{
		in:     os.Stdin,
		logger: logger.WithComponent("keys"),
	}
}

// Run reads keys until a quit command, input EOF, or context cancellation,
// sending commands on ch. The terminal is restored before Run returns, but
// callers should also defer Restore: a read blocked on stdin may outlive
// the run when the pipeline shuts down for another reason.
func (r *Reader) Run(ctx context.Context, ch chan<- orchestrator.Command) error {
	fd := int(r.in.Fd())
	raw := term.IsTerminal(fd)
	if raw {
		state, err := term.MakeRaw(fd)
		if err != nil {
			r.logger.Warn("Failed to set raw mode: %s", err)
			raw = false
		} else {
			r.mu.Lock()
			r.state = state
			r.mu.Unlock()
			defer r.Restore()
		}
	}

	if raw {
		return r.runRaw(ctx, ch)
	}
	return r.runLines(ctx, ch)
}

// Restore undoes raw mode. Safe to call more than once.
func (r *Reader) Restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		term.Restore(int(r.in.Fd()), r.state)
		r.state = nil
	}
}

// runRaw reads one byte at a time in raw mode.
func (r *Reader) runRaw(ctx context.Context, ch chan<- orchestrator.Command) error {
	buf := make([]byte, 1)
	for {
		n, err := r.in.Read(buf)
		if err != nil {
			return nil
		}
		if n == 0 {
			continue
		}
		b := buf[0]
		if b == 0x1b {
			// Possible F1 escape sequence (ESC O P).
			rest := make([]byte, 2)
			if n, _ := r.in.Read(rest); n == 2 && rest[0] == 'O' && rest[1] == 'P' {
				if !send(ctx, ch, orchestrator.CommandShowHelp) {
					return nil
				}
			}
			continue
		}
		cmd, quit, ok := keyCommand(b)
		if !ok {
			continue
		}
		if !send(ctx, ch, cmd) {
			return nil
		}
		if quit {
			return nil
		}
	}
}

// runLines reads whole lines when stdin is not a terminal.
func (r *Reader) runLines(ctx context.Context, ch chan<- orchestrator.Command) error {
	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, quit, ok := keyCommand(line[0])
		if !ok {
			continue
		}
		if !send(ctx, ch, cmd) {
			return nil
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// keyCommand maps a key byte to a command. Ctrl-C counts as quit because
// raw mode swallows the signal.
func keyCommand(b byte) (cmd orchestrator.Command, quit, ok bool) {
	switch b {
	case 'p', 'P':
		return orchestrator.CommandPause, false, true
	case 'r', 'R':
		return orchestrator.CommandResume, false, true
	case 'i', 'I':
		return orchestrator.CommandShowParams, false, true
	case 'h', 'H':
		return orchestrator.CommandShowHelp, false, true
	case 'q', 'Q', 0x03:
		return orchestrator.CommandQuit, true, true
	default:
		return 0, false, false
	}
}

// send delivers cmd unless the context ends first.
func send(ctx context.Context, ch chan<- orchestrator.Command, cmd orchestrator.Command) bool {
	select {
	case ch <- cmd:
		return true
	case <-ctx.Done():
		return false
	}
}
