//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 60 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	sample := writeFakeInput(t)

	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs(),
			wantContains: []string{
				"accepts 1 arg(s), received 0",
			},
		},
		{
			name: "too many args",
			args: staticArgs(sample, "extra"),
			wantContains: []string{
				"accepts 1 arg(s), received 2",
			},
		},
		{
			name: "unknown flag",
			args: staticArgs(sample, "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "fade non numeric",
			args: staticArgs(sample, "--fade", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "--fade"`,
			},
		},
		{
			name: "negative fade",
			args: staticArgs(sample, "--fade", "-1"),
			wantContains: []string{
				"config: fade must be >= 0",
			},
		},
		{
			name: "negative start",
			args: staticArgs(sample, "--start", "-2"),
			wantContains: []string{
				"config: start must be >= 0",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidInputMedia(t *testing.T) {
	repoRoot := mustRepoRoot(t)

	cases := []robustCase{
		{
			name: "missing input path",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{filepath.Join(t.TempDir(), "does-not-exist.mp4")}
			},
			wantContains: []string{
				"config: stat input:",
			},
		},
		{
			name: "non media input reverse",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{writeFakeInput(t), "--out", filepath.Join(t.TempDir(), "loop.mp4")}
			},
			wantContains: []string{
				"ffmpeg reverse:",
			},
		},
		{
			name: "non media input crossfade",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{writeFakeInput(t), "--technique", "crossfade", "--fade", "1"}
			},
			wantContains: []string{
				"probe",
			},
			wantNotContains: []string{
				"ffmpeg xfade:",
			},
		},
		{
			name: "missing config file",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				return []string{writeFakeInput(t), "--config", filepath.Join(t.TempDir(), "nope.yaml")}
			},
			wantContains: []string{
				"config: read config file:",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func writeFakeInput(t *testing.T) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "not-media.mp4")
	if err := os.WriteFile(p, []byte("not a video"), 0o644); err != nil {
		t.Fatalf("write fake input: %v", err)
	}
	return p
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot))
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/videolooper"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
