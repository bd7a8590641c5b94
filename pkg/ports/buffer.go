package ports

// CaptureBuffer abstracts the on-disk byte sink for the current job.
//
// Access discipline: exactly one writer (the byte source) calls Append,
// exactly one actor (the renderer, or the resume path between jobs) calls
// Truncate, and any number of observers may call Size. The size is the only
// observable signal of line activity.
type CaptureBuffer interface {
	// Append writes one unit to the buffer. The data must be durably
	// flushed before Append returns, so that a size sample taken
	// afterwards never misses bytes already handed over by the line.
	Append(p []byte) error

	// Size returns the current buffer size in bytes. It must not disturb
	// the write position.
	Size() (int64, error)

	// Truncate resets the buffer to zero length for the next job.
	Truncate() error

	// Path returns the buffer's location on disk, as handed to the
	// external converter.
	Path() string

	// Close releases the write handle.
	Close() error
}
