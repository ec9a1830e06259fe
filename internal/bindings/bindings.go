// Package bindings generates foreign-language bindings from the native
// library's C header with an external header translator such as bindgen.
package bindings

import (
	"context"
	"os"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
	"github.com/goplus/nativebuild/internal/triple"
)

// EffectiveTarget returns the triple the translator should parse the
// header for. Simulator triples are not understood by the translator's
// parser, so they are replaced with the device triple of the same OS;
// substituted reports whether that happened.
func EffectiveTarget(t triple.Triple) (effective triple.Triple, substituted bool) {
	if t.IsApple() && t.IsSimulator() {
		return t.Device(), true
	}
	return t, false
}

// Generator runs the translator for one configuration.
type Generator struct {
	cfg    *env.Config
	runner command.Runner
}

func New(cfg *env.Config, runner command.Runner) *Generator {
	return &Generator{cfg: cfg, runner: runner}
}

// Command returns the translator invocation for the configured target.
func (g *Generator) Command() command.Cmd {
	tool := g.cfg.Bindings.Command
	args := append([]string{}, tool[1:]...)
	args = append(args, g.cfg.Header, "--output", g.cfg.BindingsFile())

	clang := append([]string{}, g.cfg.Bindings.ClangArgs...)
	if t, ok := EffectiveTarget(g.cfg.Target); ok {
		clang = append(clang, "--target="+t.String())
	}
	if len(clang) > 0 {
		args = append(args, "--")
		args = append(args, clang...)
	}
	return command.Cmd{Name: tool[0], Args: args}
}

// Generate writes the bindings to the configured bindings file.
func (g *Generator) Generate(ctx context.Context) error {
	if _, err := os.Stat(g.cfg.Header); err != nil {
		return errors.MissingPath(err, g.cfg.Header)
	}
	if t, ok := EffectiveTarget(g.cfg.Target); ok {
		logger.Warnw("simulator target is not supported by the header translator, using the device target",
			"target", g.cfg.Target.String(),
			"effective", t.String())
	}
	if err := os.MkdirAll(g.cfg.OutDir, 0o755); err != nil {
		return err
	}

	out := g.cfg.BindingsFile()
	logger.Infow("generating bindings", "header", g.cfg.Header, "output", out)
	if err := g.runner.Run(ctx, g.Command()); err != nil {
		return err
	}
	if _, err := os.Stat(out); err != nil {
		return errors.Subprocess(errors.Wrapf(err, "%s did not write %s", g.cfg.Bindings.Command[0], out))
	}
	return nil
}
