package filesystem

import (
	"io"
	"os"
)

// GacheFs lets gache caches, such as the playlist library, live on the active backend.
// It resolves API() on every call, so swapping the backend in tests also moves existing caches.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
