package internal

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goplus/nativebuild/internal/logger"
	"github.com/goplus/nativebuild/internal/pipeline"
	"github.com/goplus/nativebuild/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever the native sources or the manifest change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var watchFlags map[string]string

func init() {
	watchFlags = targetFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), watchFlags)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The manifest is re-read on every rebuild so edits to it apply.
	rebuild := func(ctx context.Context) error {
		cfg, err := loadConfig(cmd.Flags(), watchFlags)
		if err != nil {
			return err
		}
		_, err = pipeline.New(cfg, newRunner(), cmd.OutOrStdout()).Run(ctx)
		return err
	}
	if err := rebuild(ctx); err != nil {
		logger.Errorw("build failed", "error", err)
	}

	w := &watch.Watcher{
		Dirs:     []string{cfg.SourceDir},
		Files:    []string{cfg.Definition},
		Ignore:   watch.Within(cfg.OutDir),
		Debounce: debounce,
	}
	logger.Infow("watching", "source", cfg.SourceDir, "definition", cfg.Definition)
	return w.Run(ctx, rebuild)
}
