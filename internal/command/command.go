// Package command runs the external tools the pipeline drives.
package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

// Cmd describes one tool invocation.
type Cmd struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string // merged over the process environment
}

func (c Cmd) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands. Failures are marked errors.ErrSubprocess.
type Runner interface {
	// Run executes c, streaming its output as diagnostics.
	Run(ctx context.Context, c Cmd) error
	// Output executes c and returns its standard output.
	Output(ctx context.Context, c Cmd) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner writing tool output to stderr, keeping
// stdout free for linker directives.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, c Cmd) error {
	cmd := r.command(ctx, c)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	logger.Debugw("running", "cmd", c.String(), "dir", c.Dir)
	if err := cmd.Run(); err != nil {
		return errors.Subprocess(errors.Wrapf(err, "%s", c.Name))
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, c Cmd) ([]byte, error) {
	cmd := r.command(ctx, c)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr
	logger.Debugw("running", "cmd", c.String(), "dir", c.Dir)
	if err := cmd.Run(); err != nil {
		return nil, errors.Subprocess(errors.Wrapf(err, "%s", c.Name))
	}
	return stdout.Bytes(), nil
}

func (r *ExecRunner) command(ctx context.Context, c Cmd) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), c.Env)
	}
	return cmd
}

// MergeEnv overlays override on a KEY=VALUE list and returns the result
// sorted by key.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
