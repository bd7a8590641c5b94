package ports

import "context"

// ProcessRunner abstracts external process invocation (the converter, the
// phosphor post-processor and the preview viewer). A non-zero exit status
// and a spawn failure both surface as a non-nil error; exit code 0 means
// success. The child's output is not streamed anywhere, but implementations
// may fold its diagnostics into the returned error.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}
