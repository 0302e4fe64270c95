//go:build linux

package procsource

// Default returns the source for this platform.
func Default() Source {
	return ProcFS{Root: "/proc"}
}
