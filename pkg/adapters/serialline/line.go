// Package serialline implements the line source over a serial port.
package serialline

import (
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/user/pcldump/pkg/ports"
)

// Line reads from a serial device one byte at a time. Virtual devices
// (/dev/ttyACM0 and friends) work the same way, which allows another
// process to stand in for the instrument.
type Line struct {
	port serial.Port
	opts ports.LineOptions
}

// Open attaches to the serial device. Failure here is fatal for the whole
// capture subsystem unless the ignore-absence mode selected the null line
// instead.
func Open(opts ports.LineOptions) (*Line, error) {
	mode := &serial.Mode{BaudRate: opts.Speed}
	port, err := serial.Open(opts.Address, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s @ %d: %w", opts.Address, opts.Speed, err)
	}
	return &Line{port: port, opts: opts}, nil
}

// ReadUnit blocks until one byte arrives. The transport carries no framing,
// so a single byte is the unit of transfer.
func (l *Line) ReadUnit() ([]byte, error) {
	buf := make([]byte, 1)
	n, err := l.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.opts.Address, err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	return buf[:n], nil
}

// Send writes a raw command string to the bus.
func (l *Line) Send(cmd string) error {
	if _, err := l.port.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("write %s: %w", l.opts.Address, err)
	}
	return nil
}

// Close shuts the port down, unblocking any pending read.
func (l *Line) Close() error {
	return l.port.Close()
}

var _ ports.LineSource = (*Line)(nil)
