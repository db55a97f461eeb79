//go:build !windows

package ptthook

// Native returns the hook platform for the build target.
func Native() Platform {
	return Unsupported()
}
