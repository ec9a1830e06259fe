package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/triple"
)

// clearEnv isolates a test from variables a surrounding build driver may
// have exported.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TARGET", "OUT_DIR", "PROFILE", "GOOS", "GOARCH",
		"NATIVEBUILD_TARGET", "NATIVEBUILD_OUT_DIR", "NATIVEBUILD_PROFILE", "NATIVEBUILD_TOOLCHAIN",
		"NATIVEBUILD_NATIVE_SOURCE_DIR", "NATIVEBUILD_CMAKE_ARGS", "NATIVEBUILD_BUILD_STALENESS",
	} {
		t.Setenv(k, "")
	}
}

func load(t *testing.T, configFile string) (*Config, error) {
	t.Helper()
	v, err := NewViper(configFile)
	require.NoError(t, err)
	return Load(v, configFile)
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nativebuild.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET", "x86_64-unknown-linux-gnu")

	missing := filepath.Join(t.TempDir(), "nativebuild.toml")
	cfg, err := load(t, missing)
	require.NoError(t, err)

	assert.Equal(t, "x86_64-unknown-linux-gnu", cfg.Target.String())
	assert.Equal(t, triple.GNU, cfg.Toolchain)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "Release", cfg.BuildMode())
	assert.Equal(t, filepath.Join(".nativebuild", "x86_64-unknown-linux-gnu"), cfg.OutDir)
	assert.Equal(t, "native", cfg.SourceDir)
	assert.Equal(t, "native", cfg.Library)
	assert.Equal(t, filepath.Join("native", "src", "native.h"), cfg.Header)
	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, exe, cfg.Definition, "missing manifest falls back to the executable")
	_, err = os.Stat(cfg.Definition)
	assert.NoError(t, err)
	assert.Equal(t, "cmake", cfg.CMake.Command)
	assert.Equal(t, []string{"bindgen"}, cfg.Bindings.Command)
	assert.Equal(t, filepath.Join(cfg.OutDir, "ffi.rs"), cfg.BindingsFile())
	assert.Equal(t, filepath.Join(cfg.OutDir, "build"), cfg.BuildDir())
	assert.Equal(t, "ldflags", cfg.Link.Format)
	assert.Equal(t, StalenessMtime, cfg.Staleness)
}

func TestLoadManifest(t *testing.T) {
	clearEnv(t)
	path := writeManifest(t, `
target = "aarch64-apple-ios-sim"
out_dir = "out"
profile = "debug"

[native]
source_dir = "randomx"
header = "randomx/src/randomx.h"

[cmake]
generator = "Ninja"
toolchain_file = "cmake/ios.toolchain.cmake"
args = "-DFOO='a b' --fresh"

[cmake.defines]
ARCH = "native"

[cmake.env]
CMAKE_OSX_DEPLOYMENT_TARGET = "11.0"

[bindings]
command = "bindgen --no-layout-tests"
clang_args = "-I randomx/src"

[build]
staleness = "hash"
`)
	cfg, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, "aarch64-apple-ios-sim", cfg.Target.String())
	assert.True(t, cfg.Debug)
	assert.Equal(t, "Debug", cfg.BuildMode())
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, "randomx", cfg.Library)
	assert.Equal(t, "randomx/src/randomx.h", cfg.Header)
	assert.Equal(t, "Ninja", cfg.CMake.Generator)
	assert.Equal(t, "cmake/ios.toolchain.cmake", cfg.CMake.ToolchainFile)
	assert.Equal(t, []string{"-DFOO=a b", "--fresh"}, cfg.CMake.Args)
	assert.Equal(t, map[string]string{"ARCH": "native"}, cfg.CMake.Defines)
	assert.Equal(t, map[string]string{"CMAKE_OSX_DEPLOYMENT_TARGET": "11.0"}, cfg.CMake.Env)
	assert.Equal(t, []string{"bindgen", "--no-layout-tests"}, cfg.Bindings.Command)
	assert.Equal(t, []string{"-I", "randomx/src"}, cfg.Bindings.ClangArgs)
	assert.Equal(t, StalenessHash, cfg.Staleness)
	assert.Equal(t, path, cfg.Definition)
}

func TestEnvOverridesManifest(t *testing.T) {
	clearEnv(t)
	path := writeManifest(t, `
target = "x86_64-unknown-linux-gnu"
profile = "debug"

[native]
source_dir = "randomx"
`)
	t.Setenv("NATIVEBUILD_TARGET", "x86_64-pc-windows-msvc")
	t.Setenv("PROFILE", "release")
	t.Setenv("OUT_DIR", "/tmp/cargo-out")
	t.Setenv("NATIVEBUILD_NATIVE_SOURCE_DIR", "vendor/randomx")

	cfg, err := load(t, path)
	require.NoError(t, err)
	assert.Equal(t, "x86_64-pc-windows-msvc", cfg.Target.String())
	assert.Equal(t, triple.MSVC, cfg.Toolchain)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "/tmp/cargo-out", cfg.OutDir)
	assert.Equal(t, "vendor/randomx", cfg.SourceDir)
	assert.Equal(t, "randomx", cfg.Library)
}

func TestNativebuildTargetWinsOverTarget(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET", "x86_64-unknown-linux-gnu")
	t.Setenv("NATIVEBUILD_TARGET", "aarch64-linux-android")

	cfg, err := load(t, filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "aarch64-linux-android", cfg.Target.String())
	assert.Equal(t, triple.Android, cfg.Target.Family())
}

func TestTargetFromGoEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOS", "darwin")
	t.Setenv("GOARCH", "arm64")

	cfg, err := load(t, filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "aarch64-apple-darwin", cfg.Target.String())
}

func TestToolchainOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET", "x86_64-pc-windows-gnu")
	t.Setenv("NATIVEBUILD_TOOLCHAIN", "MSVC")

	cfg, err := load(t, filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, triple.MSVC, cfg.Toolchain)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"profile", map[string]string{"PROFILE": "bench"}},
		{"toolchain", map[string]string{"NATIVEBUILD_TOOLCHAIN": "clang"}},
		{"target", map[string]string{"TARGET": "x86_64"}},
		{"staleness", map[string]string{"NATIVEBUILD_BUILD_STALENESS": "never"}},
		{"args", map[string]string{"NATIVEBUILD_CMAKE_ARGS": "'unterminated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TARGET", "x86_64-unknown-linux-gnu")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(t, filepath.Join(t.TempDir(), "none.toml"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestMalformedManifest(t *testing.T) {
	clearEnv(t)
	path := writeManifest(t, "target = [\n")
	_, err := NewViper(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestWriteManifest(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET", "x86_64-unknown-linux-gnu")

	path := filepath.Join(t.TempDir(), "sub", "nativebuild.toml")
	f := NewFile("randomx")
	f.CMake.Defines = map[string]string{"ARCH": "native"}
	require.NoError(t, WriteManifest(path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[native]")
	assert.Contains(t, string(data), `source_dir = "randomx"`)

	cfg, err := load(t, path)
	require.NoError(t, err)
	assert.Equal(t, "randomx", cfg.SourceDir)
	assert.Equal(t, "randomx", cfg.Library)
	assert.Equal(t, map[string]string{"ARCH": "native"}, cfg.CMake.Defines)
}

func TestHost(t *testing.T) {
	host, err := Host()
	require.NoError(t, err)
	assert.False(t, host.IsZero())
}
