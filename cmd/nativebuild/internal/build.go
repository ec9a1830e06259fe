package internal

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goplus/nativebuild/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the native library and print linker directives",
	Long: `Build checks the native sources, builds them with CMake when they changed,
regenerates the bindings when needed and prints the linker directives.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var buildFlags map[string]string

func init() {
	buildFlags = targetFlags(buildCmd.Flags())
	buildCmd.Flags().BoolP("force", "f", false, "Rebuild even when outputs are up to date")
	buildCmd.Flags().String("format", "", "Directive format: ldflags, cargo or cgo")
	buildCmd.Flags().String("staleness", "", "Staleness strategy: mtime or hash")
	buildFlags["build.force"] = "force"
	buildFlags["link.format"] = "format"
	buildFlags["build.staleness"] = "staleness"
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), buildFlags)
	if err != nil {
		return err
	}
	_, err = pipeline.New(cfg, newRunner(), cmd.OutOrStdout()).Run(context.Background())
	return err
}
