package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sebastiangraz/videolooper/internal/pipeline"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, input string) error {
	technique, _ := cmd.Flags().GetString("technique")
	fade, _ := cmd.Flags().GetFloat64("fade")
	start, _ := cmd.Flags().GetFloat64("start")
	output, _ := cmd.Flags().GetString("out")
	outDir, _ := cmd.Flags().GetString("out-dir")
	configFile, _ := cmd.Flags().GetString("config")
	workDir, _ := cmd.Flags().GetString("workdir")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:       absIn,
		Output:      output,
		OutDir:      outDir,
		Technique:   technique,
		FadeSeconds: fade,
		StartSecond: start,
		WorkDir:     workDir,

		FFmpegPath:  os.Getenv("FFMPEG_PATH"),
		FFprobePath: os.Getenv("FFPROBE_PATH"),

		Logf: func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		},
	}

	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	cmd.Println(out)
	return nil
}
