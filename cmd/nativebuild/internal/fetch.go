package internal

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goplus/nativebuild/internal/source"
)

var fetchAll bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Initialize the git submodule holding the native sources",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "Update every submodule of the repository")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), nil)
	if err != nil {
		return err
	}
	return source.Fetch(context.Background(), cfg.SourceDir, fetchAll)
}
