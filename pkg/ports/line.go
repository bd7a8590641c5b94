package ports

// LineSource abstracts the byte-oriented input line (a serial port, or a
// virtual device backed by another process). Units are read one at a time;
// the transfer protocol carries no start/end markers, so the source is
// treated as an opaque byte tap.
type LineSource interface {
	// ReadUnit blocks until one transport-layer unit is available and
	// returns it. A read pending when Close is called returns an error.
	ReadUnit() ([]byte, error)

	// Send writes a raw command string to the line. Used for
	// bus-initialization handshakes at startup.
	Send(cmd string) error

	// Close shuts the line down and unblocks any pending ReadUnit.
	Close() error
}

// LineOptions configures how the line is opened.
type LineOptions struct {
	Address string // Device path, e.g. /dev/ttyUSB0
	Speed   int    // Baud rate, e.g. 19200
}
