// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triple

import "strings"

// Family is the OS family a target links against. The set is closed:
// anything not listed is Unknown.
type Family int

const (
	Unknown Family = iota
	Apple
	Android
	Linux
	Windows
)

func (f Family) String() string {
	switch f {
	case Apple:
		return "apple"
	case Android:
		return "android"
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	}
	return "unknown"
}

// Family classifies t. Android is checked before Linux because Android
// triples carry "linux" in the OS slot.
func (t Triple) Family() Family {
	switch {
	case t.IsApple():
		return Apple
	case t.OS == "android" || strings.HasPrefix(t.Env, "android"):
		return Android
	case t.OS == "linux":
		return Linux
	case t.OS == "windows":
		return Windows
	}
	return Unknown
}

// Toolchain identifies the host toolchain family driving the native build.
type Toolchain string

const (
	GNU  Toolchain = "gnu"
	MSVC Toolchain = "msvc"
)

// ParseToolchain accepts "gnu" and "msvc" (case-insensitive).
func ParseToolchain(s string) (Toolchain, bool) {
	switch tc := Toolchain(strings.ToLower(strings.TrimSpace(s))); tc {
	case GNU, MSVC:
		return tc, true
	}
	return "", false
}

// Toolchain returns the toolchain implied by the triple's environment.
func (t Triple) Toolchain() Toolchain {
	if t.Env == "msvc" {
		return MSVC
	}
	return GNU
}
