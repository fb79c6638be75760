//go:build race

package opt

// Race_ reports whether the binary was built with the race detector.
const Race_ = true
