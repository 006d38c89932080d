package types

import "fmt"

// ValidationError rejects a request before any media work starts.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Reason }

// ProbeError means source metadata could not be read or parsed. Probing is
// deterministic, so these are never retried.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// ExtractionError is a failed reverse or extract step. Step names the
// pipeline stage (e.g. "reverse", "extract segment_after_start").
type ExtractionError struct {
	Step string
	Err  error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// BlendError is a failed crossfade blend step.
type BlendError struct {
	Err error
}

func (e *BlendError) Error() string { return fmt.Sprintf("blend: %v", e.Err) }
func (e *BlendError) Unwrap() error { return e.Err }

// AssemblyError means both concatenation attempts failed: the stream-copy
// fast path and the single re-encode retry.
type AssemblyError struct {
	CopyErr     error
	ReencodeErr error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble: copy failed (%v); re-encode failed (%v)", e.CopyErr, e.ReencodeErr)
}

func (e *AssemblyError) Unwrap() error { return e.ReencodeErr }

// ResourceError covers workspace creation or teardown failures.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string { return fmt.Sprintf("workspace %s: %v", e.Op, e.Err) }
func (e *ResourceError) Unwrap() error { return e.Err }
