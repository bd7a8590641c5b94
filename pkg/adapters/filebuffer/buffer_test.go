package filebuffer

import (
	"os"
	"path/filepath"
	"testing"
)

func tempBufferPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scope.dump")
}

func TestBuffer_AppendGrowsSize(t *testing.T) {
	path := tempBufferPath(t)
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if size, err := b.Size(); err != nil || size != 0 {
		t.Fatalf("expected empty buffer, got size=%d err=%v", size, err)
	}

	if err := b.Append([]byte{0x1b, 'E'}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Append([]byte{0x00}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	size, err := b.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 3 {
		t.Errorf("expected size 3, got %d", size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "\x1bE\x00" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestBuffer_TruncateResetsAndAcceptsNewJob(t *testing.T) {
	path := tempBufferPath(t)
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if err := b.Append([]byte("first job bytes")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	if size, _ := b.Size(); size != 0 {
		t.Errorf("expected size 0 after truncate, got %d", size)
	}

	// The next job must start at offset zero, not leave a hole where the
	// old bytes were.
	if err := b.Append([]byte("second")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected clean second job, got %q", data)
	}
}

func TestBuffer_OpenTruncatesExistingFile(t *testing.T) {
	path := tempBufferPath(t)
	if err := os.WriteFile(path, []byte("stale bytes from a dead session"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if size, _ := b.Size(); size != 0 {
		t.Errorf("expected a fresh session to start empty, got %d bytes", size)
	}
}

func TestBuffer_OpenExistingPreservesContent(t *testing.T) {
	path := tempBufferPath(t)
	if err := os.WriteFile(path, []byte("captured earlier"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}
	defer b.Close()

	size, err := b.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != int64(len("captured earlier")) {
		t.Errorf("expected preserved content, got size %d", size)
	}

	// Writes continue at the end.
	if err := b.Append([]byte(" and more")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "captured earlier and more" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestBuffer_OpenExistingMissingFileFails(t *testing.T) {
	if _, err := OpenExisting(filepath.Join(t.TempDir(), "nope.dump")); err == nil {
		t.Error("expected error for a missing buffer file")
	}
}

func TestBuffer_Path(t *testing.T) {
	path := tempBufferPath(t)
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	if b.Path() != path {
		t.Errorf("Path = %q, want %q", b.Path(), path)
	}
}
