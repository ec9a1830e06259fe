package command

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/goplus/nativebuild/internal/errors"
)

func TestMergeEnv(t *testing.T) {
	got := MergeEnv([]string{"B=2", "A=1", "BROKEN"}, map[string]string{"B": "3", "C": "4"})
	want := []string{"A=1", "B=3", "C=4"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("MergeEnv = %v, want %v", got, want)
	}
}

func TestCmdString(t *testing.T) {
	c := Cmd{Name: "cmake", Args: []string{"--build", "out/build"}}
	if got := c.String(); got != "cmake --build out/build" {
		t.Errorf("String = %q", got)
	}
}

func TestExecRunnerOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}

	var stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stderr, Stderr: &stderr}
	out, err := r.Output(context.Background(), Cmd{
		Name: "sh",
		Args: []string{"-c", "echo $NATIVEBUILD_TEST_VALUE"},
		Env:  map[string]string{"NATIVEBUILD_TEST_VALUE": "hello"},
	})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("Output = %q, want %q", out, "hello")
	}
}

func TestExecRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}

	var stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stderr, Stderr: &stderr}
	err := r.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrSubprocess) {
		t.Errorf("error %v is not ErrSubprocess", err)
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("tool diagnostics not forwarded: %q", stderr.String())
	}
}

func TestExecRunnerMissingTool(t *testing.T) {
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := r.Run(context.Background(), Cmd{Name: "nativebuild-no-such-tool"})
	if !errors.Is(err, errors.ErrSubprocess) {
		t.Errorf("error %v is not ErrSubprocess", err)
	}
}
