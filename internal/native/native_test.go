package native

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/nativebuild/internal/command"
	"github.com/goplus/nativebuild/internal/command/commandtest"
	"github.com/goplus/nativebuild/internal/env"
	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/triple"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		target string
		want   map[string]string
	}{
		{"aarch64-apple-darwin", map[string]string{
			"ARCH": "native", "CMAKE_OSX_ARCHITECTURES": "arm64",
		}},
		{"aarch64-apple-ios", map[string]string{
			"ARCH": "native", "CMAKE_OSX_ARCHITECTURES": "arm64", "CMAKE_SYSTEM_NAME": "iOS",
		}},
		{"aarch64-apple-ios-sim", map[string]string{
			"ARCH": "native", "CMAKE_OSX_ARCHITECTURES": "arm64", "CMAKE_SYSTEM_NAME": "iOS",
		}},
		{"arm64-apple-tvos", map[string]string{
			"ARCH": "native", "CMAKE_OSX_ARCHITECTURES": "arm64", "CMAKE_SYSTEM_NAME": "tvOS",
		}},
		{"x86_64-apple-darwin", map[string]string{}},
		{"x86_64-apple-ios", map[string]string{}},
		{"x86_64-unknown-linux-gnu", map[string]string{}},
		{"aarch64-unknown-linux-gnu", map[string]string{}},
		{"aarch64-linux-android", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, Options(triple.MustParse(tt.target)))
		})
	}
}

func testConfig(t *testing.T, target string) *env.Config {
	out := t.TempDir()
	return &env.Config{
		Target:    triple.MustParse(target),
		OutDir:    out,
		SourceDir: "randomx",
		CMake: env.CMake{
			Command: "cmake",
			Defines: map[string]string{},
		},
	}
}

func flagsOf(c command.Cmd) string { return strings.Join(c.Args, " ") }

func TestBuildAppleSimulator(t *testing.T) {
	cfg := testConfig(t, "aarch64-apple-ios-sim")
	rec := &commandtest.Recorder{}
	require.NoError(t, New(cfg, rec).Build(context.Background()))

	require.Len(t, rec.Cmds, 2)
	configure, build := flagsOf(rec.Cmds[0]), flagsOf(rec.Cmds[1])
	buildDir := filepath.Join(cfg.OutDir, "build")

	assert.Contains(t, configure, "-S randomx -B "+buildDir)
	assert.Contains(t, configure, "-DARCH:STRING=native")
	assert.Contains(t, configure, "-DCMAKE_OSX_ARCHITECTURES:STRING=arm64")
	assert.Contains(t, configure, "-DCMAKE_SYSTEM_NAME:STRING=iOS")
	assert.Contains(t, configure, "-DCMAKE_BUILD_TYPE:STRING=Release")
	assert.Contains(t, configure, "-DCMAKE_INSTALL_PREFIX:STRING="+cfg.OutDir)

	assert.Equal(t, "--build "+buildDir+" --config Release", build)
	assert.NotContains(t, build, "--target")
}

func TestBuildLinuxNoOverrides(t *testing.T) {
	cfg := testConfig(t, "x86_64-unknown-linux-gnu")
	cfg.Debug = true
	cfg.CMake.Generator = "Ninja"
	cfg.CMake.Args = []string{"--fresh"}
	rec := &commandtest.Recorder{}
	require.NoError(t, New(cfg, rec).Build(context.Background()))

	configure := flagsOf(rec.Cmds[0])
	assert.NotContains(t, configure, "ARCH")
	assert.NotContains(t, configure, "CMAKE_SYSTEM_NAME")
	assert.Contains(t, configure, "-G Ninja")
	assert.Contains(t, configure, "-DCMAKE_BUILD_TYPE:STRING=Debug")
	assert.True(t, strings.HasSuffix(configure, "--fresh"))
	assert.Contains(t, flagsOf(rec.Cmds[1]), "--config Debug")
}

func TestUserDefinesWin(t *testing.T) {
	cfg := testConfig(t, "aarch64-apple-darwin")
	cfg.CMake.Defines["ARCH"] = "default"
	rec := &commandtest.Recorder{}
	require.NoError(t, New(cfg, rec).Build(context.Background()))

	configure := flagsOf(rec.Cmds[0])
	assert.Contains(t, configure, "-DARCH:STRING=default")
	assert.NotContains(t, configure, "-DARCH:STRING=native")
}

func TestToolchainFileAndEnv(t *testing.T) {
	cfg := testConfig(t, "aarch64-linux-android")
	cfg.CMake.ToolchainFile = "/ndk/build/cmake/android.toolchain.cmake"
	cfg.CMake.Env = map[string]string{"ANDROID_NDK": "/ndk"}
	rec := &commandtest.Recorder{}
	require.NoError(t, New(cfg, rec).Build(context.Background()))

	require.Len(t, rec.Cmds, 2)
	assert.Contains(t, flagsOf(rec.Cmds[0]), "-DCMAKE_TOOLCHAIN_FILE:STRING=/ndk/build/cmake/android.toolchain.cmake")
	for _, c := range rec.Cmds {
		assert.Equal(t, "/ndk", c.Env["ANDROID_NDK"])
	}
}

func TestBuildFailure(t *testing.T) {
	cfg := testConfig(t, "x86_64-unknown-linux-gnu")
	rec := &commandtest.Recorder{OnRun: func(c command.Cmd) error {
		return errors.New("exit status 1")
	}}
	err := New(cfg, rec).Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSubprocess))
	assert.Len(t, rec.Cmds, 1, "build must not run after a failed configure")
}

func TestVersion(t *testing.T) {
	cfg := testConfig(t, "x86_64-unknown-linux-gnu")
	cfg.CMake.Command = "/usr/local/bin/cmake"
	rec := &commandtest.Recorder{Outputs: map[string]string{"/usr/local/bin/cmake": "cmake version 3.29.2\n"}}
	v, err := New(cfg, rec).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.29.2", v)
}
