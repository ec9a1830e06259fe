// Package source makes the native library's sources available by
// initializing the git submodule they live in.
package source

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

// Fetch initializes and checks out the submodule at dir, recursively.
// With all set, every submodule of the enclosing repository is updated.
func Fetch(ctx context.Context, dir string, all bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return errors.WithHint(errors.Wrapf(err, "open repository containing %s", dir),
			"Clone the project with `git clone --recursive` or fetch the sources manually.")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	subs, err := wt.Submodules()
	if err != nil {
		return errors.Wrap(err, "read submodules")
	}

	opts := &git.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}
	if all {
		logger.Infow("updating submodules", "count", len(subs))
		return errors.Wrap(subs.UpdateContext(ctx, opts), "update submodules")
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)
	for _, sub := range subs {
		if sub.Config().Path != rel {
			continue
		}
		logger.Infow("updating submodule", "path", rel, "url", sub.Config().URL)
		if err := sub.UpdateContext(ctx, opts); err != nil {
			return errors.Wrapf(err, "update submodule %s", rel)
		}
		return nil
	}
	return errors.MissingSource(errors.WithHint(
		errors.Newf("%s is not a submodule of %s", rel, wt.Filesystem.Root()),
		"Add it with `git submodule add <url> "+rel+"`."))
}
