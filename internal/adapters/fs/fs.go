// Package fs provides the filesystem adapter: output-directory lifecycle
// and package-manifest lookup.
package fs

import (
	"encoding/json"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FS = (*Filesystem)(nil)

// Filesystem implements ports.FS against the OS filesystem.
type Filesystem struct{}

// New creates a Filesystem.
func New() *Filesystem {
	return &Filesystem{}
}

// DirExists reports whether path exists and is a directory.
func (f *Filesystem) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EmptyDir removes every entry below path, creating the directory when it
// does not exist yet. The directory itself survives so open handles on it
// stay valid.
func (f *Filesystem) EmptyDir(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			if mkErr := os.MkdirAll(path, 0o750); mkErr != nil {
				return zerr.Wrap(mkErr, "failed to create output directory")
			}
			return nil
		}
		return zerr.Wrap(err, "failed to read output directory")
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(path, entry.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to clear output directory"), "entry", entry.Name())
		}
	}
	return nil
}

// CopyDir copies the tree rooted at src into dst verbatim, preserving
// file modes.
func (f *Filesystem) CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return zerr.Wrap(err, "failed to walk static assets directory")
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.Wrap(err, "failed to relativize path")
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
			return nil
		}
		return copyFile(path, target, d)
	})
}

func copyFile(src, dst string, d iofs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", src)
	}

	in, err := os.Open(src) //nolint:gosec // path comes from the walked tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // dst is below the output dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	return out.Close()
}

// NearestManifest walks upward from start to the filesystem root and
// returns the first package.json it can parse. A malformed manifest is
// treated as absent and the walk continues; classification must not fail
// on a dependency's broken metadata.
func (f *Filesystem) NearestManifest(start string) (*domain.PackageManifest, error) {
	dir := filepath.Clean(start)
	for {
		data, err := os.ReadFile(filepath.Join(dir, "package.json")) //nolint:gosec // walk stays within the project tree
		switch {
		case err == nil:
			var manifest domain.PackageManifest
			if jsonErr := json.Unmarshal(data, &manifest); jsonErr == nil {
				return &manifest, nil
			}
		case !errors.Is(err, iofs.ErrNotExist):
			return nil, zerr.With(zerr.Wrap(err, "failed to read package manifest"), "dir", dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
