// Package preflight verifies that the inputs of a native build are present
// before any tool is run.
package preflight

import (
	"context"
	"os"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

// CheckSourceDir fails with ErrMissingSource when dir is absent,
// unreadable or empty. A source tree that lives in a git submodule is
// empty until the submodule is initialized.
func CheckSourceDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return missingSource(errors.Wrapf(err, "read %s", dir))
	}
	if len(entries) == 0 {
		return missingSource(errors.Newf("The `%s` directory is empty. Did you forget to pull the submodules?", dir))
	}
	logger.Debugw("source directory present", "dir", dir, "entries", len(entries))
	return nil
}

func missingSource(err error) error {
	return errors.MissingSource(errors.WithHint(err,
		"Try `git submodule update --init --recursive` or `nativebuild fetch`"))
}

// VersionFunc reports the version of an external tool, e.g. "3.28.1".
type VersionFunc func(ctx context.Context) (string, error)

// CheckTool fails when the version reported by version is older than min.
// An empty min disables the check.
func CheckTool(ctx context.Context, tool, min string, version VersionFunc) error {
	if min == "" {
		return nil
	}
	want := canonical(min)
	if !semver.IsValid(want) {
		return errors.InvalidConfig(errors.Newf("%s minimum version %q is not a version", tool, min))
	}
	got, err := version(ctx)
	if err != nil {
		return errors.WithHintf(err, "Install %s %s or newer and make sure it is on PATH.", tool, min)
	}
	have := canonical(got)
	if !semver.IsValid(have) {
		return errors.Subprocess(errors.Newf("%s reported unparsable version %q", tool, got))
	}
	if semver.Compare(have, want) < 0 {
		return errors.Subprocess(errors.WithHintf(
			errors.Newf("%s %s is older than the required %s", tool, got, min),
			"Install %s %s or newer.", tool, min))
	}
	logger.Debugw("tool version ok", "tool", tool, "version", got, "min", min)
	return nil
}

// canonical turns "3.28" or "3.28.1-rc2" into a semver string.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
