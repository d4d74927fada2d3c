// Package hashing derives the content-hash tokens used in output file
// naming templates.
package hashing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Token returns the 8-hex-digit content hash substituted for the [hash]
// naming token. Stable across builds for identical content.
func Token(content []byte) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64(content)))
}

// ExpandTemplate fills the engine's naming tokens into a template:
// [name] with the output's base name, [ext] with its extension (without
// the dot), [hash] with the content hash.
func ExpandTemplate(template, name string, content []byte) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	r := strings.NewReplacer(
		"[name]", base,
		"[ext]", ext,
		"[hash]", Token(content),
	)
	return r.Replace(template)
}
