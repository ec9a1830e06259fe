// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package native builds the native library with its CMake build definition.
package native

import (
	"context"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/logger"
	"github.com/goplus/nativebuild/internal/triple"
	"github.com/goplus/nativebuild/pkgs/buildsys"
	"github.com/goplus/nativebuild/x/cmake"
)

// Options returns the build options the target requires.
//
// Apple ARM64 targets pin the library's ARCH option to native code
// generation and CMAKE_OSX_ARCHITECTURES to arm64; Apple mobile targets
// additionally select their CMAKE_SYSTEM_NAME. Every other target builds
// with the definition's defaults.
func Options(t triple.Triple) map[string]string {
	opts := make(map[string]string)
	if t.IsApple() && t.IsARM64() {
		opts["ARCH"] = "native"
		opts["CMAKE_OSX_ARCHITECTURES"] = "arm64"
		if name := t.SystemName(); name != "" {
			opts["CMAKE_SYSTEM_NAME"] = name
		}
	}
	return opts
}

// Builder configures and builds the native library into
// <OutDir>/build.
type Builder struct {
	cfg    *env.Config
	runner command.Runner
}

// New returns a Builder running tools through runner.
func New(cfg *env.Config, runner command.Runner) *Builder {
	return &Builder{cfg: cfg, runner: runner}
}

func (b *Builder) cmake() *cmake.CMake {
	c := cmake.New(b.cfg.SourceDir, b.cfg.BuildDir(), b.cfg.OutDir)
	c.SetRunner(b.runner)
	c.Command(b.cfg.CMake.Command)
	c.Generator(b.cfg.CMake.Generator)
	c.BuildType(b.cfg.BuildMode())
	c.Toolchain(b.cfg.CMake.ToolchainFile)
	for k, v := range b.cfg.CMake.Env {
		c.Env(k, v)
	}
	return c
}

// Version reports the version of the configured cmake.
func (b *Builder) Version(ctx context.Context) (string, error) {
	return b.cmake().Version(ctx)
}

// Build configures the project for the target and builds it. No explicit
// build target is requested: the project's own default targets are built.
func (b *Builder) Build(ctx context.Context) error {
	c := b.cmake()
	opts := Options(b.cfg.Target)
	define(c, opts)
	// User defines are applied last and win over target options.
	define(c, b.cfg.CMake.Defines)

	logger.Infow("building native library",
		"source", b.cfg.SourceDir,
		"target", b.cfg.Target.String(),
		"mode", b.cfg.BuildMode(),
		"options", len(opts))

	if err := c.Configure(ctx, b.cfg.CMake.Args...); err != nil {
		return err
	}
	return c.Build(ctx)
}

func define(bs buildsys.BuildSystem, defs map[string]string) {
	for k, v := range defs {
		bs.Define(k, v)
	}
}
