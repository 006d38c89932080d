package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sebastiangraz/videolooper/internal/ports"
	"github.com/sebastiangraz/videolooper/internal/types"
)

// Re-encoded intermediates all use the same codec parameters so the final
// concat can take the stream-copy path.
var x264Args = []string{
	"-c:v", "libx264",
	"-preset", "veryfast",
	"-crf", "18",
	"-pix_fmt", "yuv420p",
	"-an",
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Probe(ctx context.Context, in string) (types.VideoInfo, error) {
	durStr, err := a.probeEntry(ctx, in, "format=duration", "")
	if err != nil {
		return types.VideoInfo{}, err
	}
	dur, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("parse duration %q: %w", durStr, err)
	}
	if dur <= 0 {
		return types.VideoInfo{}, fmt.Errorf("non-positive duration %q", durStr)
	}

	rateStr, err := a.probeEntry(ctx, in, "stream=r_frame_rate", "v:0")
	if err != nil {
		return types.VideoInfo{}, err
	}
	rate, err := parseRational(rateStr)
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("parse frame rate %q: %w", rateStr, err)
	}

	return types.VideoInfo{DurationSeconds: dur, FrameRate: rate}, nil
}

func (a *Adapter) probeEntry(ctx context.Context, in, entry, stream string) (string, error) {
	args := []string{"-v", "error"}
	if stream != "" {
		args = append(args, "-select_streams", stream)
	}
	args = append(args,
		"-show_entries", entry,
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	cmd := exec.CommandContext(ctx, a.ffprobe, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffprobe %s: %w\n%s", entry, err, string(b))
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", fmt.Errorf("ffprobe %s: empty result", entry)
	}
	return s, nil
}

func (a *Adapter) Reverse(ctx context.Context, in, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vf", "reverse",
		"-an",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg reverse: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Extract(ctx context.Context, in string, start, duration float64, out string, opts ports.ExtractOpts) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-i", in,
		"-t", fmtSeconds(duration),
		"-map", "0:v:0",
	}
	if opts.Reencode {
		if opts.FrameRate > 0 {
			args = append(args, "-r", fmtRate(opts.FrameRate))
		}
		args = append(args, x264Args...)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, out)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Blend(ctx context.Context, tail, head string, fade, frameRate float64, out string) error {
	filter := fmt.Sprintf("[0:v][1:v]xfade=transition=fade:duration=%s:offset=0[v]", fmtSeconds(fade))
	args := []string{
		"-y",
		"-i", tail,
		"-i", head,
		"-filter_complex", filter,
		"-map", "[v]",
	}
	if frameRate > 0 {
		args = append(args, "-r", fmtRate(frameRate))
	}
	args = append(args, x264Args...)
	args = append(args, out)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg xfade: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Concatenate(ctx context.Context, clips []string, out string, mode ports.ConcatMode) error {
	if len(clips) == 0 {
		return fmt.Errorf("concatenate: no input clips")
	}

	list, err := writeConcatList(clips, out)
	if err != nil {
		return err
	}
	defer os.Remove(list)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
	}
	if mode == ports.ConcatReencode {
		args = append(args, x264Args...)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, out)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

// writeConcatList writes the concat demuxer input list next to the output
// file so it never depends on the process working directory.
func writeConcatList(clips []string, out string) (string, error) {
	var sb strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("concat list: %w", err)
		}
		fmt.Fprintf(&sb, "file '%s'\n", abs)
	}
	list := out + ".concat.txt"
	if err := os.WriteFile(list, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("concat list: %w", err)
	}
	return list, nil
}

// parseRational converts ffprobe rate strings ("30000/1001", "25/1", "23.976")
// to a decimal frame rate. Zero or missing rates are errors; callers decide
// whether a fallback is acceptable.
func parseRational(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator")
		}
		if n/d <= 0 {
			return 0, fmt.Errorf("non-positive rate")
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("non-positive rate")
	}
	return v, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func fmtRate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
