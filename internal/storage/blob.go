package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// BlobStore is a small durable key/value store. Put fully replaces the value
// under key; Delete of a missing key is not an error.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
