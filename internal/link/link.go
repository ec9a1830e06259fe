// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link computes the linker directives a host program needs to link
// the native library built by nativebuild.
package link

import (
	"path/filepath"

	"github.com/goplus/nativebuild/internal/errors"
	"github.com/goplus/nativebuild/internal/triple"
)

// Kind is the kind of a linker directive.
type Kind int

const (
	// SearchPath adds a library search directory.
	SearchPath Kind = iota
	// Library links a library by name with the linker's default kind.
	Library
	// DynamicLibrary links a shared library by name.
	DynamicLibrary
)

func (k Kind) String() string {
	switch k {
	case SearchPath:
		return "search"
	case Library:
		return "lib"
	case DynamicLibrary:
		return "dylib"
	}
	return "unknown"
}

// Directive is one instruction to the host program's linker.
type Directive struct {
	Kind  Kind
	Value string
}

// CXXRuntime returns the C++ standard library the native library must be
// linked against. name is empty when the toolchain links its runtime
// implicitly; ok is false when no policy exists for the combination.
func CXXRuntime(family triple.Family, tc triple.Toolchain) (name string, ok bool) {
	switch tc {
	case triple.MSVC:
		switch family {
		case triple.Windows:
			return "", true
		case triple.Apple, triple.Android, triple.Linux, triple.Unknown:
			return "", false
		}
	case triple.GNU:
		switch family {
		case triple.Apple:
			return "c++", true
		case triple.Android:
			return "c++_shared", true
		case triple.Linux:
			return "stdc++", true
		case triple.Windows:
			return "stdc++", true
		case triple.Unknown:
			return "", false
		}
	}
	return "", false
}

// Params describes the build whose output is linked.
type Params struct {
	Target    triple.Triple
	Toolchain triple.Toolchain
	OutDir    string
	Library   string
	Debug     bool
}

// SearchDir returns the directory holding the built library. Multi-config
// MSVC generators nest it in a per-configuration subdirectory.
func (p Params) SearchDir() string {
	dir := filepath.Join(p.OutDir, "build")
	if p.Toolchain == triple.MSVC {
		if p.Debug {
			return filepath.Join(dir, "Debug")
		}
		return filepath.Join(dir, "Release")
	}
	return dir
}

// Plan returns the directives for p, or an ErrUnsupportedTarget error when
// the target has no linking policy. Plan has no side effects.
func Plan(p Params) ([]Directive, error) {
	runtime, ok := CXXRuntime(p.Target.Family(), p.Toolchain)
	if !ok {
		err := errors.UnsupportedTarget(p.Target.String())
		return nil, errors.WithDetailf(err, "family %s, toolchain %s", p.Target.Family(), p.Toolchain)
	}
	ds := []Directive{
		{Kind: SearchPath, Value: p.SearchDir()},
		{Kind: Library, Value: p.Library},
	}
	if runtime != "" {
		ds = append(ds, Directive{Kind: DynamicLibrary, Value: runtime})
	}
	return ds, nil
}
