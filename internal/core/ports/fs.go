package ports

import "github.com/calder-build/calder/internal/core/domain"

// FS is the filesystem collaborator for output-directory lifecycle and
// manifest lookups.
//
//go:generate go run go.uber.org/mock/mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks
type FS interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool

	// EmptyDir removes every entry below path, creating it if absent.
	EmptyDir(path string) error

	// CopyDir copies the tree rooted at src into dst verbatim.
	CopyDir(src, dst string) error

	// NearestManifest walks upward from start and returns the first parsed
	// package manifest, or (nil, nil) when none exists.
	NearestManifest(start string) (*domain.PackageManifest, error)
}
