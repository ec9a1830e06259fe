package triple

import (
	"fmt"
	"strings"
)

// goArchs maps GOARCH values to triple architectures.
var goArchs = map[string]string{
	"386":     "i686",
	"amd64":   "x86_64",
	"arm":     "armv7",
	"arm64":   "aarch64",
	"loong64": "loongarch64",
	"ppc64le": "powerpc64le",
	"riscv64": "riscv64gc",
	"s390x":   "s390x",
	"wasm":    "wasm32",
}

// FromGo returns the conventional triple for a GOOS/GOARCH pair. Windows
// maps to the GNU environment because cgo links with MinGW.
func FromGo(goos, goarch string) (Triple, error) {
	arch, ok := goArchs[goarch]
	if !ok {
		return Triple{}, fmt.Errorf("unknown GOARCH %q", goarch)
	}
	var s string
	switch goos {
	case "darwin":
		s = arch + "-apple-darwin"
	case "ios":
		s = arch + "-apple-ios"
	case "android":
		if goarch == "arm" {
			s = "armv7-linux-androideabi"
		} else {
			s = arch + "-linux-android"
		}
	case "linux":
		if goarch == "arm" {
			s = "armv7-unknown-linux-gnueabihf"
		} else {
			s = arch + "-unknown-linux-gnu"
		}
	case "windows":
		if goarch == "arm64" {
			s = "aarch64-pc-windows-gnullvm"
		} else {
			s = arch + "-pc-windows-gnu"
		}
	case "js", "wasip1":
		s = arch + "-unknown-unknown"
	default:
		s = arch + "-unknown-" + goos
	}
	return Parse(s)
}

// GoOSArch returns the GOOS/GOARCH pair a triple corresponds to, or
// ok=false when there is none.
func (t Triple) GoOSArch() (goos, goarch string, ok bool) {
	goarch = goArchOf(t.Arch)
	if goarch == "" {
		return "", "", false
	}
	switch t.Family() {
	case Apple:
		switch t.OSName() {
		case "darwin", "macos", "macosx":
			goos = "darwin"
		case "ios":
			goos = "ios"
		default:
			return "", "", false
		}
	case Android:
		goos = "android"
	case Linux:
		goos = "linux"
	case Windows:
		goos = "windows"
	default:
		switch t.OS {
		case "freebsd", "netbsd", "openbsd", "dragonfly", "illumos", "solaris", "aix":
			goos = t.OS
		default:
			return "", "", false
		}
	}
	return goos, goarch, true
}

func goArchOf(arch string) string {
	switch {
	case arch == "aarch64" || arch == "arm64" || arch == "arm64e":
		return "arm64"
	case arch == "arm" || strings.HasPrefix(arch, "armv"):
		return "arm"
	case arch == "i386" || arch == "i586" || arch == "i686":
		return "386"
	}
	for ga, a := range goArchs {
		if a == arch {
			return ga
		}
	}
	return ""
}
