package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebastiangraz/videolooper/internal/types"
)

func TestBuildOutputPath(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildOutputPath("out", "/tmp/My Cool.Video.mp4", types.TechniqueCrossfade, now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-cool-video-loop-crossfade-20260212-103045Z-") {
		t.Fatalf("unexpected output name format: %s", base)
	}
	if !strings.HasSuffix(base, ".mp4") {
		t.Fatalf("missing mp4 extension: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "looper.yaml")
	data := "ffmpeg: /opt/ffmpeg/bin/ffmpeg\nffprobe: /opt/ffmpeg/bin/ffprobe\ntechnique: crossfade\nfade: 1.5\nout_dir: renders\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Config{FFmpegPath: "ffmpeg-custom"}
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Explicit values win; unset values come from the file.
	if cfg.FFmpegPath != "ffmpeg-custom" {
		t.Fatalf("explicit ffmpeg path overridden: %s", cfg.FFmpegPath)
	}
	if cfg.FFprobePath != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("ffprobe not merged: %s", cfg.FFprobePath)
	}
	if cfg.Technique != "crossfade" || cfg.FadeSeconds != 1.5 || cfg.OutDir != "renders" {
		t.Fatalf("file defaults not merged: %+v", cfg)
	}
}

func TestApplyFile_BadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "looper.yaml")
	if err := os.WriteFile(path, []byte("fade: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var cfg Config
	if err := cfg.ApplyFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	input := filepath.Join(tmp, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "ok", cfg: Config{Input: input}},
		{name: "empty input", cfg: Config{}, wantErr: "input is empty"},
		{name: "missing input", cfg: Config{Input: filepath.Join(tmp, "nope.mp4")}, wantErr: "stat input"},
		{name: "negative fade", cfg: Config{Input: input, FadeSeconds: -1}, wantErr: "fade must be >= 0"},
		{name: "negative start", cfg: Config{Input: input, StartSecond: -2}, wantErr: "start must be >= 0"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("validate = %v, want %q", err, tc.wantErr)
			}
		})
	}
}
