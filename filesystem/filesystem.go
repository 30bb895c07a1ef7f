// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Every component that touches disk (playlists, resume state, the library registry, logs)
// goes through API(), so the whole application can run against an in-memory backend.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// Fs returns the raw afero.Fs behind API, for components that take an afero.Fs directly.
func Fs() afero.Fs {
	return backend.Fs
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing and CI environments.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Set installs an arbitrary backend, e.g. a read-only or fault-injecting wrapper.
func Set(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
