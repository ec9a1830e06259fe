// Package env captures the build environment and the manifest once, at
// startup, into an immutable Config.
package env

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/logger"
	"github.com/goplus/nativebuild/internal/triple"
)

// Staleness strategies.
const (
	StalenessMtime = "mtime"
	StalenessHash  = "hash"
)

// Config is the resolved configuration of one run. Callers must not
// mutate it after Load returns.
type Config struct {
	Target     triple.Triple
	Host       triple.Triple
	HostKernel string
	Toolchain  triple.Toolchain
	OutDir     string
	Debug      bool

	SourceDir  string
	Library    string
	Header     string
	Definition string

	CMake    CMake
	Bindings Bindings
	Link     Link

	Staleness string
	Force     bool
}

type CMake struct {
	Command       string
	Generator     string
	ToolchainFile string
	Defines       map[string]string
	Env           map[string]string
	Args          []string
	MinVersion    string
}

type Bindings struct {
	Command   []string
	File      string
	ClangArgs []string
}

type Link struct {
	Format     string
	CgoFile    string
	CgoPackage string
}

// Profile returns "debug" or "release".
func (c *Config) Profile() string {
	if c.Debug {
		return "debug"
	}
	return "release"
}

// BuildMode returns the CMake build type matching the profile.
func (c *Config) BuildMode() string {
	if c.Debug {
		return "Debug"
	}
	return "Release"
}

// BuildDir is the native build tree.
func (c *Config) BuildDir() string { return filepath.Join(c.OutDir, "build") }

// BindingsFile is where the generated bindings are written.
func (c *Config) BindingsFile() string { return filepath.Join(c.OutDir, c.Bindings.File) }

// NewViper returns a viper instance reading configFile (when it exists),
// the environment and the defaults.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix("NATIVEBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	SetDefaults(v)

	if configFile == "" {
		configFile = DefaultConfigFile
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if _, err := os.Stat(configFile); err != nil {
		logger.Debugw("manifest not found, using defaults", "path", configFile)
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.InvalidConfig(errors.Wrapf(err, "read %s", configFile))
	}
	return v, nil
}

// Load resolves the configuration held by v. configFile is the manifest v
// was created from; when it exists it is the default definition file.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, errors.InvalidConfig(errors.Wrap(err, "unmarshal config"))
	}
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	host, err := Host()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Host:       host,
		HostKernel: hostKernel(),
		SourceDir:  f.Native.SourceDir,
		Library:    f.Native.Library,
		Header:     f.Native.Header,
		Definition: f.Build.Definition,
		Staleness:  f.Build.Staleness,
		Force:      f.Build.Force,
		CMake: CMake{
			Command:       f.CMake.Command,
			Generator:     f.CMake.Generator,
			ToolchainFile: f.CMake.ToolchainFile,
			Defines:       make(map[string]string, len(f.CMake.Defines)),
			Env:           make(map[string]string, len(f.CMake.Env)),
			MinVersion:    f.CMake.MinVersion,
		},
		Bindings: Bindings{File: f.Bindings.File},
		Link: Link{
			Format:     f.Link.Format,
			CgoFile:    f.Link.CgoFile,
			CgoPackage: f.Link.CgoPackage,
		},
	}
	for k, val := range f.CMake.Defines {
		// viper lowercases map keys read from TOML; CMake variables are
		// conventionally upper case.
		cfg.CMake.Defines[strings.ToUpper(k)] = val
	}
	for k, val := range f.CMake.Env {
		cfg.CMake.Env[strings.ToUpper(k)] = val
	}

	if cfg.Target, err = resolveTarget(f.Target, host); err != nil {
		return nil, err
	}

	switch strings.ToLower(f.Profile) {
	case "debug":
		cfg.Debug = true
	case "release", "":
	default:
		return nil, errors.InvalidConfig(errors.Newf("profile %q: want debug or release", f.Profile))
	}

	cfg.Toolchain = cfg.Target.Toolchain()
	if f.Toolchain != "" {
		tc, ok := triple.ParseToolchain(f.Toolchain)
		if !ok {
			return nil, errors.InvalidConfig(errors.Newf("toolchain %q: want gnu or msvc", f.Toolchain))
		}
		cfg.Toolchain = tc
	}

	cfg.OutDir = f.OutDir
	if cfg.OutDir == "" {
		cfg.OutDir = filepath.Join(".nativebuild", cfg.Target.String())
	}

	if cfg.SourceDir == "" {
		return nil, errors.InvalidConfig(errors.New("native.source_dir is empty"))
	}
	if cfg.Library == "" {
		cfg.Library = filepath.Base(cfg.SourceDir)
	}
	if cfg.Header == "" {
		cfg.Header = filepath.Join(cfg.SourceDir, "src", cfg.Library+".h")
	}
	if cfg.Definition == "" {
		cfg.Definition = defaultDefinition(configFile)
	}

	switch cfg.Staleness {
	case StalenessMtime, StalenessHash:
	default:
		return nil, errors.InvalidConfig(errors.Newf("build.staleness %q: want %s or %s", cfg.Staleness, StalenessMtime, StalenessHash))
	}

	if cfg.CMake.Args, err = split("cmake.args", f.CMake.Args); err != nil {
		return nil, err
	}
	if cfg.Bindings.Command, err = split("bindings.command", f.Bindings.Command); err != nil {
		return nil, err
	}
	if len(cfg.Bindings.Command) == 0 {
		return nil, errors.InvalidConfig(errors.New("bindings.command is empty"))
	}
	if cfg.Bindings.ClangArgs, err = split("bindings.clang_args", f.Bindings.ClangArgs); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultDefinition is the manifest when there is one, else the running
// nativebuild executable. Either way the gate has an existing file to
// compare against.
func defaultDefinition(configFile string) string {
	if _, err := os.Stat(configFile); err == nil {
		return configFile
	}
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return configFile
}

// resolveTarget picks the target triple: explicit setting, then the
// GOOS/GOARCH of a Go cross build, then the host.
func resolveTarget(s string, host triple.Triple) (triple.Triple, error) {
	if s != "" {
		t, err := triple.Parse(s)
		if err != nil {
			return triple.Triple{}, errors.InvalidConfig(err)
		}
		return t, nil
	}
	goos, goarch := os.Getenv("GOOS"), os.Getenv("GOARCH")
	if goos == "" && goarch == "" {
		return host, nil
	}
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	t, err := triple.FromGo(goos, goarch)
	if err != nil {
		return triple.Triple{}, errors.InvalidConfig(err)
	}
	return t, nil
}

// Host returns the triple of the machine running nativebuild.
func Host() (triple.Triple, error) {
	return triple.FromGo(runtime.GOOS, runtime.GOARCH)
}

func split(key, s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.InvalidConfig(errors.Wrapf(err, "%s", key))
	}
	return words, nil
}
