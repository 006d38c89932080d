package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sebastiangraz/videolooper/internal/domain/plan"
	"github.com/sebastiangraz/videolooper/internal/ports"
	"github.com/sebastiangraz/videolooper/internal/types"
	"github.com/sebastiangraz/videolooper/internal/workspace"
)

type Deps struct {
	Transcoder ports.Transcoder
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	SourcePath string
	OutputPath string
	Request    types.LoopRequest

	// WorkDir is the base directory for the invocation's workspace.
	// If empty, the system temp dir is used.
	WorkDir string
	Logf    func(format string, args ...any)
}

type Result struct {
	OutputPath string
	Info       types.VideoInfo
	Plan       types.SegmentPlan
}

// Run synthesizes a seamless loop from the source asset. The source is never
// mutated; all intermediates live in a per-invocation workspace that is
// released on every exit path, and only the output at OutputPath survives.
func (u Usecase) Run(ctx context.Context, in Input) (res Result, err error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// Parameter checks that need no probe result run before any tool call.
	if in.Request.FadeDuration < 0 {
		return Result{}, &types.ValidationError{Reason: fmt.Sprintf("fade duration must be >= 0, got %g", in.Request.FadeDuration)}
	}
	if in.Request.StartSecond < 0 {
		return Result{}, &types.ValidationError{Reason: fmt.Sprintf("start second must be >= 0, got %g", in.Request.StartSecond)}
	}

	ws, err := workspace.New(in.WorkDir)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	logf("workspace: %s", ws.Root())

	switch in.Request.Technique {
	case types.TechniqueCrossfade:
		return u.runCrossfade(ctx, in, ws, logf)
	default:
		// Unknown technique values run the reverse pipeline.
		return u.runReverse(ctx, in, ws, logf)
	}
}

// runReverse plays the source forward, then backward: reverse the full clip
// into the workspace and concatenate [source, reversed]. No planning and no
// probe needed.
func (u Usecase) runReverse(ctx context.Context, in Input, ws *workspace.Workspace, logf func(string, ...any)) (Result, error) {
	reversed := ws.Path("reversed.mp4")
	logf("reversing source")
	if err := u.d.Transcoder.Reverse(ctx, in.SourcePath, reversed); err != nil {
		return Result{}, &types.ExtractionError{Step: "reverse", Err: err}
	}
	if err := u.assemble(ctx, []string{in.SourcePath, reversed}, in.OutputPath, logf); err != nil {
		return Result{}, err
	}
	return Result{OutputPath: in.OutputPath}, nil
}

func (u Usecase) runCrossfade(ctx context.Context, in Input, ws *workspace.Workspace, logf func(string, ...any)) (Result, error) {
	info, err := u.d.Transcoder.Probe(ctx, in.SourcePath)
	if err != nil {
		return Result{}, &types.ProbeError{Path: in.SourcePath, Err: err}
	}
	logf("source: %.3fs at %.3f fps", info.DurationSeconds, info.FrameRate)

	p, err := plan.Build(info.DurationSeconds, in.Request.FadeDuration, in.Request.StartSecond)
	if err != nil {
		return Result{}, err
	}

	blendClip := ""
	if in.Request.FadeDuration > 0 {
		blendClip, err = u.buildBlend(ctx, in, ws, info, logf)
		if err != nil {
			return Result{}, err
		}
	}

	clips, err := u.materialize(ctx, in, ws, info, p, blendClip)
	if err != nil {
		return Result{}, err
	}

	if err := u.assemble(ctx, clips, in.OutputPath, logf); err != nil {
		return Result{}, err
	}
	return Result{OutputPath: in.OutputPath, Info: info, Plan: p}, nil
}

// buildBlend extracts the two boundary clips and crossfades the tail into
// the head. The boundary extractions have no data dependency on each other
// and run concurrently; the blend waits for both.
func (u Usecase) buildBlend(ctx context.Context, in Input, ws *workspace.Workspace, info types.VideoInfo, logf func(string, ...any)) (string, error) {
	fade := in.Request.FadeDuration
	head := ws.Path("loop-head.mp4")
	tail := ws.Path("loop-tail.mp4")
	opts := ports.ExtractOpts{Reencode: true, FrameRate: info.FrameRate}

	logf("extracting %.3fs boundary clips", fade)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := u.d.Transcoder.Extract(gctx, in.SourcePath, 0, fade, head, opts); err != nil {
			return &types.ExtractionError{Step: "extract loop head", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		start := info.DurationSeconds - fade
		if err := u.d.Transcoder.Extract(gctx, in.SourcePath, start, fade, tail, opts); err != nil {
			return &types.ExtractionError{Step: "extract loop tail", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	logf("blending tail into head")
	out := ws.Path("blend.mp4")
	if err := u.d.Transcoder.Blend(ctx, tail, head, fade, info.FrameRate, out); err != nil {
		return "", &types.BlendError{Err: err}
	}
	return out, nil
}

// materialize extracts every non-blend segment of the plan into the
// workspace and returns the clip paths in playback order. Extractions are
// independent of each other and run concurrently.
func (u Usecase) materialize(ctx context.Context, in Input, ws *workspace.Workspace, info types.VideoInfo, p types.SegmentPlan, blendClip string) ([]string, error) {
	clips := make([]string, len(p))
	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range p {
		if seg.Role == types.RoleCrossfadeBlend {
			clips[i] = blendClip
			continue
		}
		i, seg := i, seg
		clips[i] = ws.Path(fmt.Sprintf("%02d-%s.mp4", i, seg.Role))
		g.Go(func() error {
			opts := ports.ExtractOpts{Reencode: seg.Reencode, FrameRate: info.FrameRate}
			if err := u.d.Transcoder.Extract(gctx, in.SourcePath, seg.SourceStart, seg.SourceDuration, clips[i], opts); err != nil {
				return &types.ExtractionError{Step: "extract " + string(seg.Role), Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}

// assemble joins the clips at the output path. Stream copy first; one
// re-encode retry if the copy path fails.
func (u Usecase) assemble(ctx context.Context, clips []string, out string, logf func(string, ...any)) error {
	logf("concatenating %d clip(s)", len(clips))
	copyErr := u.d.Transcoder.Concatenate(ctx, clips, out, ports.ConcatCopy)
	if copyErr == nil {
		return nil
	}
	logf("stream-copy concat failed, retrying with re-encode: %v", copyErr)
	if reErr := u.d.Transcoder.Concatenate(ctx, clips, out, ports.ConcatReencode); reErr != nil {
		return &types.AssemblyError{CopyErr: copyErr, ReencodeErr: reErr}
	}
	return nil
}
