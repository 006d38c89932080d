package ports

import (
	"context"

	"github.com/sebastiangraz/videolooper/internal/types"
)

// ConcatMode selects how clips are joined.
type ConcatMode int

const (
	// ConcatCopy reassembles compressed streams without re-encoding. Fast and
	// lossless, but requires all inputs to share codec parameters.
	ConcatCopy ConcatMode = iota
	// ConcatReencode decodes and re-encodes the joined output. Safety net for
	// inputs the copy path cannot stitch.
	ConcatReencode
)

// ExtractOpts controls how a time range is cut out of a source clip.
type ExtractOpts struct {
	// Reencode forces a full re-encode at FrameRate so the extract shares
	// codec parameters with blended clips. When false the extract is a
	// stream copy.
	Reencode  bool
	FrameRate float64
}

// Transcoder is the external media tool boundary. All operations are
// blocking, fallible, and must surface the underlying tool's diagnostic
// output in their errors.
type Transcoder interface {
	Probe(ctx context.Context, in string) (types.VideoInfo, error)
	Reverse(ctx context.Context, in, out string) error
	Extract(ctx context.Context, in string, start, duration float64, out string, opts ExtractOpts) error
	// Blend crossfades tail into head over fade seconds; the result is
	// exactly fade seconds long and always re-encoded.
	Blend(ctx context.Context, tail, head string, fade, frameRate float64, out string) error
	Concatenate(ctx context.Context, clips []string, out string, mode ConcatMode) error
}
