package ports

import (
	"context"
	"time"
)

// CompletedJob is the snapshot handed from the job monitor to the renderer
// when a transfer is deemed finished. It is produced once per job and
// consumed exactly once.
type CompletedJob struct {
	BufferPath  string    // Location of the captured bytes on disk
	Size        int64     // Buffer size at completion time
	CompletedAt time.Time // When the inactivity window elapsed
}

// RenderSink consumes completed jobs. The call is synchronous: the monitor
// blocks until JobComplete returns, so a second completion can never fire
// against stale data mid-render.
type RenderSink interface {
	JobComplete(ctx context.Context, job CompletedJob) error
}
