// Command nativebuild builds a CMake-based native library for a target
// triple, generates bindings for its C header and prints the linker
// directives needed to link it.
package main

import "github.com/goplus/nativebuild/cmd/nativebuild/internal"

func main() {
	internal.Execute()
}
