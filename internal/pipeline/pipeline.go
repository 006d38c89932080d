package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/sebastiangraz/videolooper/internal/ports"
	"github.com/sebastiangraz/videolooper/internal/ports/adapters/ffmpeg"
	"github.com/sebastiangraz/videolooper/internal/types"
	"github.com/sebastiangraz/videolooper/internal/usecase"
)

type Config struct {
	Input string

	// Output is the explicit output file. When empty a timestamped path
	// under OutDir is derived from the input name and technique.
	Output string
	OutDir string

	Technique   string
	FadeSeconds float64
	StartSecond float64

	// WorkDir is the base directory for per-invocation workspaces.
	// If empty, the system temp dir is used.
	WorkDir string

	FFmpegPath  string
	FFprobePath string

	Logf func(format string, args ...any)
}

// FileConfig is the optional YAML defaults file. Explicitly set Config
// values always win over file values.
type FileConfig struct {
	FFmpeg    string  `yaml:"ffmpeg"`
	FFprobe   string  `yaml:"ffprobe"`
	WorkDir   string  `yaml:"workdir"`
	OutDir    string  `yaml:"out_dir"`
	Technique string  `yaml:"technique"`
	Fade      float64 `yaml:"fade"`
}

// ApplyFile merges defaults from a YAML file into unset config fields.
func (c *Config) ApplyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = fc.FFmpeg
	}
	if c.FFprobePath == "" {
		c.FFprobePath = fc.FFprobe
	}
	if c.WorkDir == "" {
		c.WorkDir = fc.WorkDir
	}
	if c.OutDir == "" {
		c.OutDir = fc.OutDir
	}
	if c.Technique == "" {
		c.Technique = fc.Technique
	}
	if c.FadeSeconds == 0 {
		c.FadeSeconds = fc.Fade
	}
	return nil
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.FadeSeconds < 0 {
		return fmt.Errorf("fade must be >= 0")
	}
	if c.StartSecond < 0 {
		return fmt.Errorf("start must be >= 0")
	}
	return nil
}

// Run synthesizes the loop and returns the output path.
func Run(ctx context.Context, cfg Config) (string, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	technique := types.ParseTechnique(cfg.Technique)

	output := cfg.Output
	if output == "" {
		outDir := cfg.OutDir
		if outDir == "" {
			outDir = "out"
		}
		output = buildOutputPath(outDir, cfg.Input, technique, time.Now().UTC())
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", err
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return "", err
	}

	uc := usecase.New(usecase.Deps{
		Transcoder: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
	})

	logf("technique: %s", technique)
	res, err := uc.Run(ctx, usecase.Input{
		SourcePath: cfg.Input,
		OutputPath: absOutput,
		Request: types.LoopRequest{
			Technique:    technique,
			FadeDuration: cfg.FadeSeconds,
			StartSecond:  cfg.StartSecond,
		},
		WorkDir: cfg.WorkDir,
		Logf:    logf,
	})
	if err != nil {
		return "", err
	}
	logf("loop written: %s", res.OutputPath)
	return res.OutputPath, nil
}

func buildOutputPath(outDir, input string, technique types.Technique, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outDir, fmt.Sprintf("%s-loop-%s-%s-%s.mp4", name, technique, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure the adapter implements the port
var _ ports.Transcoder = (*ffmpeg.Adapter)(nil)
