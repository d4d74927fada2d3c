// Package build carries version metadata stamped into the calder binary.
package build

// Version identifies the running calder release. Release builds override
// the default through -ldflags.
var Version = "dev"
