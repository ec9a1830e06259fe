package buildsys

import "context"

// BuildSystem captures what the native builder needs from a build-system
// generator (CMake today). Implementations add their own extras.
type BuildSystem interface {
	// Cache entries passed at configure time.
	Define(key, value string)

	// Environment of every tool invocation.
	Env(key, val string)

	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
}
