package env

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is the manifest read when no --config is given.
const DefaultConfigFile = "nativebuild.toml"

// File is the on-disk manifest. Every key can be overridden by an
// environment variable NATIVEBUILD_<SECTION>_<KEY>.
type File struct {
	Target    string `toml:"target,omitempty" mapstructure:"target"`
	OutDir    string `toml:"out_dir,omitempty" mapstructure:"out_dir"`
	Profile   string `toml:"profile,omitempty" mapstructure:"profile"`
	Toolchain string `toml:"toolchain,omitempty" mapstructure:"toolchain"`

	Native   NativeSection   `toml:"native" mapstructure:"native"`
	CMake    CMakeSection    `toml:"cmake" mapstructure:"cmake"`
	Bindings BindingsSection `toml:"bindings" mapstructure:"bindings"`
	Link     LinkSection     `toml:"link" mapstructure:"link"`
	Build    BuildSection    `toml:"build" mapstructure:"build"`
}

type NativeSection struct {
	SourceDir string `toml:"source_dir" mapstructure:"source_dir"`
	Library   string `toml:"library,omitempty" mapstructure:"library"`
	Header    string `toml:"header,omitempty" mapstructure:"header"`
}

type CMakeSection struct {
	Command       string            `toml:"command,omitempty" mapstructure:"command"`
	Generator     string            `toml:"generator,omitempty" mapstructure:"generator"`
	ToolchainFile string            `toml:"toolchain_file,omitempty" mapstructure:"toolchain_file"`
	Defines       map[string]string `toml:"defines,omitempty" mapstructure:"defines"`
	Env           map[string]string `toml:"env,omitempty" mapstructure:"env"`
	Args          string            `toml:"args,omitempty" mapstructure:"args"`
	MinVersion    string            `toml:"min_version,omitempty" mapstructure:"min_version"`
}

type BindingsSection struct {
	Command   string `toml:"command,omitempty" mapstructure:"command"`
	File      string `toml:"file,omitempty" mapstructure:"file"`
	ClangArgs string `toml:"clang_args,omitempty" mapstructure:"clang_args"`
}

type LinkSection struct {
	Format     string `toml:"format,omitempty" mapstructure:"format"`
	CgoFile    string `toml:"cgo_file,omitempty" mapstructure:"cgo_file"`
	CgoPackage string `toml:"cgo_package,omitempty" mapstructure:"cgo_package"`
}

type BuildSection struct {
	Staleness  string `toml:"staleness,omitempty" mapstructure:"staleness"`
	Force      bool   `toml:"force,omitempty" mapstructure:"force"`
	Definition string `toml:"definition,omitempty" mapstructure:"definition"`
}

// NewFile returns the manifest "nativebuild init" writes for a native
// library living in sourceDir.
func NewFile(sourceDir string) File {
	return File{
		Profile: "release",
		Native: NativeSection{
			SourceDir: sourceDir,
			Library:   filepath.Base(sourceDir),
		},
		CMake: CMakeSection{
			Command: "cmake",
		},
		Bindings: BindingsSection{
			Command: "bindgen",
			File:    "ffi.rs",
		},
		Link: LinkSection{
			Format: "ldflags",
		},
		Build: BuildSection{
			Staleness: "mtime",
		},
	}
}

const manifestHeader = "# nativebuild manifest. Keys can be overridden with NATIVEBUILD_<SECTION>_<KEY>.\n\n"

// WriteManifest encodes f as TOML into path.
func WriteManifest(path string, f File) error {
	var buf bytes.Buffer
	buf.WriteString(manifestHeader)
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
