// Package errors provides error handling for nativebuild.
//
// It re-exports github.com/cockroachdb/errors and defines the sentinel
// errors every pipeline failure is marked with. Callers check the class of a
// failure with Is:
//
//	if errors.Is(err, errors.ErrMissingSource) {
//	    // ...
//	}
//
// Hints attached with WithHint are printed by the CLI below the message.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithStack   = crdb.WithStack
	WithMessage = crdb.WithMessage
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is          = crdb.Is
	IsAny       = crdb.IsAny
	As          = crdb.As
	Unwrap      = crdb.Unwrap
	UnwrapAll   = crdb.UnwrapAll
	GetAllHints = crdb.GetAllHints
	Mark        = crdb.Mark
)

// Failure classes. Every fatal pipeline error is marked with exactly one of
// these; none of them is retried.
var (
	// ErrMissingSource: the native source directory is absent or empty.
	ErrMissingSource = New("missing native source")

	// ErrSubprocess: an external tool could not be started or exited non-zero.
	ErrSubprocess = New("subprocess failed")

	// ErrMissingRequiredPath: a required input (header, definition file,
	// staleness input) does not exist.
	ErrMissingRequiredPath = New("missing required path")

	// ErrUnsupportedTarget: the target's OS family has no linking policy.
	ErrUnsupportedTarget = New("unsupported target")

	// ErrInvalidConfig: configuration values cannot be interpreted.
	ErrInvalidConfig = New("invalid configuration")
)

// MissingSource marks err as ErrMissingSource.
func MissingSource(err error) error { return Mark(err, ErrMissingSource) }

// Subprocess marks err as ErrSubprocess.
func Subprocess(err error) error { return Mark(err, ErrSubprocess) }

// MissingPath returns an ErrMissingRequiredPath error for path.
func MissingPath(err error, path string) error {
	return Mark(Wrapf(err, "path %s not found", path), ErrMissingRequiredPath)
}

// UnsupportedTarget returns an ErrUnsupportedTarget error naming target.
func UnsupportedTarget(target string) error {
	return Mark(Newf("linking for target %q is not implemented", target), ErrUnsupportedTarget)
}

// InvalidConfig marks err as ErrInvalidConfig.
func InvalidConfig(err error) error { return Mark(err, ErrInvalidConfig) }
