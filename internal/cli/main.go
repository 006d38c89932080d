package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "videolooper <input>",
		Short:        "Turn a video into a seamless loop",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("technique", "reverse", "Loop technique: reverse or crossfade")
	root.Flags().Float64("fade", 0, "Crossfade duration in seconds")
	root.Flags().Float64("start", 0, "Crossfade loop start point in seconds")
	root.Flags().String("out", "", "Output file (default: generated under --out-dir)")
	root.Flags().String("out-dir", "out", "Output directory for generated names")
	root.Flags().String("config", "", "YAML defaults file")

	// Hidden tuning flag (internal)
	root.Flags().String("workdir", "", "Base directory for scratch workspaces")
	_ = root.Flags().MarkHidden("workdir")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
