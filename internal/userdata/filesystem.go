// Package userdata is the user-scoped persistence layer: the source registry,
// the per-category pagination side table, and watch history. Everything is
// stored as small JSON documents under the user's config directory through a
// swappable afero backend, so tests run against an in-memory filesystem.
package userdata

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// FS returns the active afero filesystem used for all userdata storage.
func FS() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system filesystem backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend for tests.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// gacheFs adapts the afero backend to the gache.FileSystem interface.
type gacheFs struct{}

func (gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return FS().OpenFile(name, flag, perm)
}

func (gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return FS().MkdirAll(path, perm)
}
