// Package cmake wraps the cmake configure/build workflow.
package cmake

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/pkgs/buildsys"
)

// CMake drives CMake-based builds.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	command    string
	defines    map[string]string
	env        map[string]string
	runner     command.Runner
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		command:    "cmake",
		defines:    make(map[string]string),
		env:        make(map[string]string),
		runner:     command.NewExecRunner(),
	}
}

// Command overrides the cmake executable.
func (c *CMake) Command(path string) {
	if path != "" {
		c.command = path
	}
}

// SetRunner replaces the runner used to execute cmake.
func (c *CMake) SetRunner(r command.Runner) { c.runner = r }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Env sets an environment variable for every cmake invocation.
func (c *CMake) Env(key, value string) { c.env[key] = value }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = value
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	return c.run(ctx, c.configureArgs(args))
}

func (c *CMake) configureArgs(args []string) []string {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	return append(cmakeArgs, args...)
}

// Build runs "cmake --build <build>" with optional extra arguments. No
// --target is passed: the project's default targets are built.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	return c.run(ctx, c.buildArgs(args))
}

func (c *CMake) buildArgs(args []string) []string {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	return append(cmakeArgs, args...)
}

// Version returns the version reported by "cmake --version", e.g. "3.28.1".
func (c *CMake) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Output(ctx, command.Cmd{Name: c.command, Args: []string{"--version"}, Env: c.env})
	if err != nil {
		return "", err
	}
	return ParseVersion(out)
}

// ParseVersion extracts the version from "cmake --version" output.
func ParseVersion(out []byte) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 3 && fields[1] == "version" {
			return fields[2], nil
		}
	}
	return "", fmt.Errorf("unrecognized version output %q", strings.TrimSpace(string(out)))
}

func (c *CMake) run(ctx context.Context, args []string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.runner.Run(ctx, command.Cmd{Name: c.command, Args: args, Env: c.env})
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+":STRING="+c.defines[k])
	}
	return args
}
