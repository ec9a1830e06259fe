// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stale decides whether a build step's output is out of date with
// respect to its input and the build definition file.
package stale

import (
	"os"
	"time"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

// Strategy selects how staleness is detected.
type Strategy string

const (
	// Mtime compares modification times: the output is fresh only when it
	// is strictly newer than both the input and the definition file.
	Mtime Strategy = "mtime"
	// Hash compares content digests recorded in a stamp file next to the
	// output.
	Hash Strategy = "hash"
)

// Gate runs actions only when their output is stale.
type Gate struct {
	// Definition is the build definition file. A change to it invalidates
	// every output.
	Definition string
	Strategy   Strategy
	// Force runs every action regardless of staleness.
	Force bool
}

// RunIfStale runs action when output is stale relative to input and the
// definition file, and reports whether it ran. The action's error is
// returned unchanged.
func (g Gate) RunIfStale(input, output string, action func() error) (bool, error) {
	switch g.Strategy {
	case Hash:
		return g.runIfHashChanged(input, output, action)
	case Mtime, "":
		return g.runIfNewer(input, output, action)
	}
	return false, errors.InvalidConfig(errors.Newf("unknown staleness strategy %q", g.Strategy))
}

func (g Gate) runIfNewer(input, output string, action func() error) (bool, error) {
	if !g.Force {
		out, err := os.Stat(output)
		if err == nil {
			in, err := os.Stat(input)
			if err != nil {
				return false, errors.MissingPath(err, input)
			}
			def, err := os.Stat(g.Definition)
			if err != nil {
				return false, errors.MissingPath(err, g.Definition)
			}
			mod := out.ModTime()
			if mod.After(in.ModTime()) && mod.After(def.ModTime()) {
				logger.Debugw("up to date", "output", output)
				return false, nil
			}
		}
	}
	logger.Debugw("stale, running", "input", input, "output", output, "force", g.Force)
	if err := action(); err != nil {
		invalidate(output)
		return true, err
	}
	return true, nil
}

// invalidate backdates output so a failed action that still touched it
// is retried on the next run.
func invalidate(output string) {
	epoch := time.Unix(0, 0)
	if err := os.Chtimes(output, epoch, epoch); err != nil && !os.IsNotExist(err) {
		logger.Warnw("cannot invalidate output", "output", output, "error", err)
	}
}

func (g Gate) runIfHashChanged(input, output string, action func() error) (bool, error) {
	in, err := digest(input)
	if err != nil {
		return false, err
	}
	def, err := digest(g.Definition)
	if err != nil {
		return false, err
	}
	want := stamp{Input: in, Definition: def}

	if !g.Force {
		if _, err := os.Stat(output); err == nil {
			if got, err := loadStamp(output); err == nil && got.matches(want) {
				logger.Debugw("up to date", "output", output, "input_digest", in)
				return false, nil
			}
		}
	}
	logger.Debugw("stale, running", "input", input, "output", output, "force", g.Force)
	if err := action(); err != nil {
		return true, err
	}
	if err := saveStamp(output, want); err != nil {
		return true, errors.Wrapf(err, "write stamp for %s", output)
	}
	return true, nil
}
