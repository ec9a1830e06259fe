package env

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for every manifest key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("profile", "release")

	v.SetDefault("native.source_dir", "native")

	v.SetDefault("cmake.command", "cmake")
	v.SetDefault("cmake.defines", map[string]string{})
	v.SetDefault("cmake.env", map[string]string{})

	v.SetDefault("bindings.command", "bindgen")
	v.SetDefault("bindings.file", "ffi.rs")

	v.SetDefault("link.format", "ldflags")
	v.SetDefault("link.cgo_file", "zz_nativebuild_link.go")

	v.SetDefault("build.staleness", "mtime")
	v.SetDefault("build.force", false)
}

// bindEnv binds keys that also honor the variables set by foreign build
// drivers (cargo exports TARGET, OUT_DIR and PROFILE to build scripts).
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("target", "NATIVEBUILD_TARGET", "TARGET")
	_ = v.BindEnv("out_dir", "NATIVEBUILD_OUT_DIR", "OUT_DIR")
	_ = v.BindEnv("profile", "NATIVEBUILD_PROFILE", "PROFILE")
	_ = v.BindEnv("toolchain", "NATIVEBUILD_TOOLCHAIN")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"native.library",
		"native.header",
		"cmake.generator",
		"cmake.toolchain_file",
		"cmake.args",
		"cmake.min_version",
		"bindings.clang_args",
		"link.cgo_package",
		"build.definition",
	} {
		_ = v.BindEnv(key)
	}
}
