package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
)

var (
	configFile string
	verbose    bool
	logJSON    bool
)

// newRunner is replaced in tests.
var newRunner = func() command.Runner { return command.NewExecRunner() }

var rootCmd = &cobra.Command{
	Use:   "nativebuild",
	Short: "nativebuild builds native libraries for linking into host programs",
	Long: `nativebuild prepares a CMake-based native library for a target triple:
it checks that the sources are present, builds the library, generates
bindings for its C header and prints the linker directives the host
program needs. Diagnostics go to stderr, directives to stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitializeWithWriter(cmd.ErrOrStderr(), verbose, logJSON)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", env.DefaultConfigFile, "Manifest file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug diagnostics")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write diagnostics as JSON")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err and every hint attached to it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

// loadConfig resolves the configuration, with the given command flags
// overriding manifest and environment. flags maps config keys to flag
// names.
func loadConfig(fs *pflag.FlagSet, flags map[string]string) (*env.Config, error) {
	v, err := env.NewViper(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, fs, flags); err != nil {
		return nil, err
	}
	return env.Load(v, configFile)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, flags map[string]string) error {
	for key, name := range flags {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// targetFlags registers the flags shared by commands that resolve a
// configuration and returns their config keys.
func targetFlags(fs *pflag.FlagSet) map[string]string {
	fs.StringP("target", "t", "", "Target triple (default: $NATIVEBUILD_TARGET, $TARGET, $GOOS/$GOARCH or the host)")
	fs.StringP("out-dir", "o", "", "Output directory (default: .nativebuild/<target>)")
	fs.String("profile", "", "Build profile: debug or release")
	fs.String("toolchain", "", "Toolchain: gnu or msvc (default: derived from the target)")
	return map[string]string{
		"target":    "target",
		"out_dir":   "out-dir",
		"profile":   "profile",
		"toolchain": "toolchain",
	}
}
