// Package commandtest provides a recording command.Runner for tests.
package commandtest

import (
	"context"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/errors"
)

// Recorder records every command instead of executing it.
type Recorder struct {
	Cmds []command.Cmd

	// OnRun, if set, is called for every command and may simulate the
	// tool's side effects or fail it.
	OnRun func(c command.Cmd) error
	// Outputs maps a tool name to what Output returns for it.
	Outputs map[string]string
}

var _ command.Runner = (*Recorder)(nil)

func (r *Recorder) Run(ctx context.Context, c command.Cmd) error {
	r.Cmds = append(r.Cmds, c)
	if r.OnRun != nil {
		if err := r.OnRun(c); err != nil {
			return errors.Subprocess(err)
		}
	}
	return nil
}

func (r *Recorder) Output(ctx context.Context, c command.Cmd) ([]byte, error) {
	if err := r.Run(ctx, c); err != nil {
		return nil, err
	}
	out, ok := r.Outputs[c.Name]
	if !ok {
		return nil, errors.Subprocess(errors.Newf("%s: executable file not found", c.Name))
	}
	return []byte(out), nil
}

// Names returns the tool name of each recorded command.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Cmds))
	for i, c := range r.Cmds {
		names[i] = c.Name
	}
	return names
}
