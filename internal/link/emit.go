package link

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/triple"
)

// Format selects how directives are rendered.
type Format string

const (
	// Ldflags renders one line of linker flags, usable as CGO_LDFLAGS.
	Ldflags Format = "ldflags"
	// Cargo renders cargo build-script instructions.
	Cargo Format = "cargo"
	// Cgo writes a Go source file carrying a #cgo LDFLAGS directive.
	Cgo Format = "cgo"
)

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Ldflags, Cargo, Cgo:
		return f, nil
	}
	return "", errors.InvalidConfig(errors.Newf("link format %q: want ldflags, cargo or cgo", s))
}

// Emitter writes directives in one format.
type Emitter struct {
	Format Format
	// Out receives ldflags and cargo output.
	Out io.Writer
	// CgoFile and CgoPackage locate the file written by the cgo format.
	CgoFile    string
	CgoPackage string
	// Target selects the build constraint of the cgo file.
	Target triple.Triple
}

// Emit renders ds.
func (e *Emitter) Emit(ds []Directive) error {
	switch e.Format {
	case Ldflags:
		_, err := fmt.Fprintln(e.Out, ldflags(ds))
		return err
	case Cargo:
		_, err := io.WriteString(e.Out, cargo(ds))
		return err
	case Cgo:
		return e.writeCgo(ds)
	}
	return errors.InvalidConfig(errors.Newf("unknown link format %q", e.Format))
}

func ldflags(ds []Directive) string {
	flags := make([]string, 0, len(ds))
	for _, d := range ds {
		switch d.Kind {
		case SearchPath:
			flags = append(flags, "-L"+d.Value)
		case Library, DynamicLibrary:
			flags = append(flags, "-l"+d.Value)
		}
	}
	return strings.Join(flags, " ")
}

func cargo(ds []Directive) string {
	var b strings.Builder
	for _, d := range ds {
		switch d.Kind {
		case SearchPath:
			b.WriteString("cargo:rustc-link-search=" + d.Value + "\n")
		case Library:
			b.WriteString("cargo:rustc-link-lib=" + d.Value + "\n")
		case DynamicLibrary:
			b.WriteString("cargo:rustc-link-lib=dylib=" + d.Value + "\n")
		}
	}
	return b.String()
}

// absolute makes search paths absolute; cgo resolves relative -L flags
// against the compiler's working directory, not the package.
func absolute(ds []Directive) ([]Directive, error) {
	out := make([]Directive, len(ds))
	for i, d := range ds {
		if d.Kind == SearchPath {
			abs, err := filepath.Abs(d.Value)
			if err != nil {
				return nil, err
			}
			d.Value = abs
		}
		out[i] = d
	}
	return out, nil
}

// RenderCgo returns the Go source of the cgo link file.
func RenderCgo(pkg string, target triple.Triple, ds []Directive) []byte {
	var b bytes.Buffer
	b.WriteString("// Code generated by nativebuild. DO NOT EDIT.\n\n")
	if goos, goarch, ok := target.GoOSArch(); ok {
		fmt.Fprintf(&b, "//go:build %s && %s\n\n", goos, goarch)
	}
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// #cgo LDFLAGS: %s\n", ldflags(ds))
	b.WriteString("import \"C\"\n")
	return b.Bytes()
}

func (e *Emitter) writeCgo(ds []Directive) error {
	if e.CgoFile == "" {
		return errors.InvalidConfig(errors.New("link.cgo_file is empty"))
	}
	ds, err := absolute(ds)
	if err != nil {
		return err
	}
	pkg := e.CgoPackage
	if pkg == "" {
		abs, err := filepath.Abs(e.CgoFile)
		if err != nil {
			return err
		}
		pkg = packageName(filepath.Base(filepath.Dir(abs)))
	}
	return os.WriteFile(e.CgoFile, RenderCgo(pkg, e.Target, ds), 0o644)
}

// packageName derives a Go package name from a directory name.
func packageName(dir string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return '_'
	}, dir)
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}
