// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triple models compilation target triples such as
// "x86_64-unknown-linux-gnu" or "aarch64-apple-ios-sim".
package triple

import (
	"fmt"
	"strings"
)

// Triple is a parsed target triple. The zero value is not a valid target.
type Triple struct {
	Arch   string
	Vendor string
	OS     string
	Env    string

	raw string
}

// knownOS lists OS names that may appear in the vendor slot of a
// vendor-less triple, e.g. "aarch64-linux-android".
var knownOS = map[string]bool{
	"linux":   true,
	"windows": true,
	"none":    true,
	"android": true,
}

// Parse splits s into its components.
func Parse(s string) (Triple, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	for _, p := range parts {
		if p == "" {
			return Triple{}, fmt.Errorf("invalid target triple %q", s)
		}
	}
	t := Triple{raw: s, Vendor: "unknown"}
	switch {
	case len(parts) < 2:
		return Triple{}, fmt.Errorf("invalid target triple %q: want arch-vendor-os[-env]", s)
	case len(parts) == 2:
		t.Arch, t.OS = parts[0], parts[1]
	case len(parts) == 3 && knownOS[parts[1]]:
		t.Arch, t.OS, t.Env = parts[0], parts[1], parts[2]
	default:
		t.Arch, t.Vendor, t.OS = parts[0], parts[1], parts[2]
		t.Env = strings.Join(parts[3:], "-")
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Triple {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the triple as it was parsed.
func (t Triple) String() string {
	if t.raw != "" {
		return t.raw
	}
	parts := []string{t.Arch, t.Vendor, t.OS}
	if t.Env != "" {
		parts = append(parts, t.Env)
	}
	return strings.Join(parts, "-")
}

// IsZero reports whether t is the zero Triple.
func (t Triple) IsZero() bool {
	return t == Triple{}
}

// IsARM64 reports whether the architecture is 64-bit ARM.
func (t Triple) IsARM64() bool {
	return t.Arch == "aarch64" || t.Arch == "arm64" || t.Arch == "arm64e"
}

// IsApple reports whether the target belongs to the Apple vendor family.
func (t Triple) IsApple() bool {
	return t.Vendor == "apple" || appleOS[t.OSName()] != ""
}

// OSName returns the OS component without a trailing deployment version,
// e.g. "ios" for "ios17.0".
func (t Triple) OSName() string {
	return strings.TrimRight(t.OS, "0123456789.")
}

// IsSimulator reports whether the triple carries the simulator marker,
// as in "aarch64-apple-ios-sim" or "arm64-apple-ios17.0-simulator".
func (t Triple) IsSimulator() bool {
	switch {
	case t.Env == "sim" || t.Env == "simulator":
		return true
	case strings.HasSuffix(t.Env, "-sim") || strings.HasSuffix(t.Env, "-simulator"):
		return true
	}
	return false
}

// appleOS maps Apple OS triple names to their CMAKE_SYSTEM_NAME.
var appleOS = map[string]string{
	"darwin":   "Darwin",
	"macos":    "Darwin",
	"macosx":   "Darwin",
	"ios":      "iOS",
	"tvos":     "tvOS",
	"watchos":  "watchOS",
	"visionos": "visionOS",
	"xros":     "visionOS",
}

// IsAppleMobile reports whether t targets an Apple mobile OS, device or
// simulator.
func (t Triple) IsAppleMobile() bool {
	switch t.OSName() {
	case "ios", "tvos", "watchos", "visionos", "xros":
		return t.IsApple()
	}
	return false
}

// SystemName returns the CMAKE_SYSTEM_NAME for Apple mobile targets and ""
// for every other target.
func (t Triple) SystemName() string {
	if !t.IsAppleMobile() {
		return ""
	}
	return appleOS[t.OSName()]
}

// Device returns the physical-device triple corresponding to a simulator
// triple: same OS, generic device architecture. Non-simulator triples are
// returned unchanged.
func (t Triple) Device() Triple {
	if !t.IsSimulator() {
		return t
	}
	return Triple{Arch: "arm64", Vendor: "apple", OS: t.OSName()}
}
