package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/link"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved build configuration",
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

var envFlags map[string]string

func init() {
	envFlags = targetFlags(envCmd.Flags())
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), envFlags)
	if err != nil {
		return err
	}
	printEnv(cmd.OutOrStdout(), cfg)
	return nil
}

func printEnv(w io.Writer, cfg *env.Config) {
	ldflags := "unsupported"
	if ds, err := link.Plan(link.Params{
		Target:    cfg.Target,
		Toolchain: cfg.Toolchain,
		OutDir:    cfg.OutDir,
		Library:   cfg.Library,
		Debug:     cfg.Debug,
	}); err == nil {
		var b strings.Builder
		if err := (&link.Emitter{Format: link.Ldflags, Out: &b}).Emit(ds); err == nil {
			ldflags = strings.TrimSpace(b.String())
		}
	}

	vars := [][2]string{
		{"TARGET", cfg.Target.String()},
		{"FAMILY", cfg.Target.Family().String()},
		{"TOOLCHAIN", string(cfg.Toolchain)},
		{"HOST", cfg.Host.String()},
		{"HOST_KERNEL", cfg.HostKernel},
		{"PROFILE", cfg.Profile()},
		{"OUT_DIR", cfg.OutDir},
		{"BUILD_DIR", cfg.BuildDir()},
		{"SOURCE_DIR", cfg.SourceDir},
		{"LIBRARY", cfg.Library},
		{"HEADER", cfg.Header},
		{"BINDINGS", cfg.BindingsFile()},
		{"DEFINITION", cfg.Definition},
		{"STALENESS", cfg.Staleness},
		{"CMAKE", cfg.CMake.Command},
		{"LINK_FORMAT", cfg.Link.Format},
		{"LDFLAGS", ldflags},
	}
	for _, kv := range vars {
		fmt.Fprintf(w, "%s=%q\n", kv[0], kv[1])
	}
}
