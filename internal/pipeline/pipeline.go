// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline runs the stages of a native build in order: preflight,
// native build, bindings generation and linker directive emission.
//
// Stages run sequentially and the first failure aborts the run. Linker
// directives are written only after every earlier stage succeeded, so a
// failed run never leaves partial directives behind.
//
// The native build runs on every invocation and relies on CMake's own
// dependency tracking. Bindings are regenerated only when the header or
// the definition file changed, or when forced.
package pipeline

import (
	"context"
	"io"

	"github.com/goplus/nativebuild/internal/bindings"
	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/link"
	"github.com/goplus/nativebuild/internal/logger"
	"github.com/goplus/nativebuild/internal/native"
	"github.com/goplus/nativebuild/internal/preflight"
	"github.com/goplus/nativebuild/internal/stale"
)

// Result summarizes a successful run.
type Result struct {
	NativeBuilt       bool
	BindingsGenerated bool
	Directives        []link.Directive
}

// Pipeline is one configured run.
type Pipeline struct {
	cfg    *env.Config
	runner command.Runner
	out    io.Writer
}

// New returns a Pipeline running tools through runner and writing
// directives to out.
func New(cfg *env.Config, runner command.Runner, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, runner: runner, out: out}
}

// Run executes every stage.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.cfg
	if err := preflight.CheckSourceDir(cfg.SourceDir); err != nil {
		return nil, err
	}

	// The link plan depends only on the configuration: an unsupported
	// target fails here, before anything is built.
	format, err := link.ParseFormat(cfg.Link.Format)
	if err != nil {
		return nil, err
	}
	directives, err := link.Plan(link.Params{
		Target:    cfg.Target,
		Toolchain: cfg.Toolchain,
		OutDir:    cfg.OutDir,
		Library:   cfg.Library,
		Debug:     cfg.Debug,
	})
	if err != nil {
		return nil, err
	}

	builder := native.New(cfg, p.runner)
	if err := preflight.CheckTool(ctx, "cmake", cfg.CMake.MinVersion, builder.Version); err != nil {
		return nil, err
	}

	gate := stale.Gate{
		Definition: cfg.Definition,
		Strategy:   stale.Strategy(cfg.Staleness),
		Force:      cfg.Force,
	}
	res := &Result{Directives: directives}

	if err := builder.Build(ctx); err != nil {
		return nil, err
	}
	res.NativeBuilt = true

	gen := bindings.New(cfg, p.runner)
	res.BindingsGenerated, err = gate.RunIfStale(cfg.Header, cfg.BindingsFile(), func() error {
		return gen.Generate(ctx)
	})
	if err != nil {
		return nil, err
	}

	emitter := &link.Emitter{
		Format:     format,
		Out:        p.out,
		CgoFile:    cfg.Link.CgoFile,
		CgoPackage: cfg.Link.CgoPackage,
		Target:     cfg.Target,
	}
	if err := emitter.Emit(directives); err != nil {
		return nil, err
	}
	logger.Infow("done",
		"target", cfg.Target.String(),
		"native_built", res.NativeBuilt,
		"bindings_generated", res.BindingsGenerated)
	return res, nil
}
