// Package storage defines the contract for key/value object stores
// backing run metadata, resolved resources and remote destinations.
//
// Typically this is something file system-like. Examples are a local
// directory or an S3 bucket. Implementations of this interface are
// assumed to be fairly simple.
package storage

import (
	"context"
	"io"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrNotFound is returned when a key is not present in the store
	ErrNotFound errString = "not found"

	// ErrForbidden is returned when access to a key is denied
	ErrForbidden errString = "forbidden"

	// ErrNotSupported is returned for operations a store cannot carry out
	ErrNotSupported errString = "not supported"

	// ErrExists is returned when an exclusive put hits an existing key
	ErrExists errString = "exists already"
)

// Store implementations know how to read and write keyed objects.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}

// PipeIO copies reader to writer and reports the bytes moved
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	return io.Copy(writer, reader)
}
