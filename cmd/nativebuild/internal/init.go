package internal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [source-dir]",
	Short: "Write a manifest for a native library",
	Long: `Init writes a nativebuild.toml (or the file named by --config) for the
native library in source-dir, "native" by default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing manifest")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	sourceDir := "native"
	if len(args) > 0 {
		sourceDir = args[0]
	}

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return errors.WithHint(errors.Newf("%s already exists", configFile), "Use --force to overwrite it.")
	}
	if err := env.WriteManifest(configFile, env.NewFile(sourceDir)); err != nil {
		return errors.Wrapf(err, "write %s", configFile)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s for %s\n", configFile, sourceDir)
	return nil
}
