// Package filebuffer provides the on-disk capture buffer implementation.
package filebuffer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

// Buffer is a file-backed ports.CaptureBuffer. The write handle opened here
// is the single writer for the session; size observers go through os.Stat
// so they never disturb the write position. A mutex covers the handle
// because the appender (byte source) and the truncator (renderer or resume
// path) run on different goroutines.
type Buffer struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// Open creates or truncates the buffer file for a new capture session and
// returns it ready for appending.
func Open(path string) (*Buffer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open buffer file %s: %w", path, err)
	}
	return &Buffer{path: path, f: f}, nil
}

// OpenExisting opens an already-populated buffer file without truncating
// it, positioned at the end. Used by the one-shot render mode, where the
// buffer was filled by an earlier session or another process.
func OpenExisting(path string) (*Buffer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open buffer file %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek buffer file %s: %w", path, err)
	}
	return &Buffer{path: path, f: f}, nil
}

// Append writes one unit and syncs it to disk before returning. The sync is
// what lets the monitor trust its size samples: a byte handed over by the
// line is on disk before the next read is issued.
func (b *Buffer) Append(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.f.Write(p); err != nil {
		return fmt.Errorf("write buffer: %w", err)
	}
	if err := b.f.Sync(); err != nil {
		return fmt.Errorf("sync buffer: %w", err)
	}
	return nil
}

// Size reports the buffer size from the filesystem, independent of the
// write handle.
func (b *Buffer) Size() (int64, error) {
	fi, err := os.Stat(b.path)
	if err != nil {
		return 0, fmt.Errorf("stat buffer: %w", err)
	}
	return fi.Size(), nil
}

// Truncate resets the buffer to zero length and rewinds the write handle so
// the next job starts at offset zero.
func (b *Buffer) Truncate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate buffer: %w", err)
	}
	if _, err := b.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind buffer: %w", err)
	}
	return b.f.Sync()
}

// Path returns the buffer file location.
func (b *Buffer) Path() string {
	return b.path
}

// Close releases the write handle.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.f.Close()
}

var _ ports.CaptureBuffer = (*Buffer)(nil)
