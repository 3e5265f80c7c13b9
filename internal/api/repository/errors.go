package repository

import (
	"errors"
	"fmt"
)

// ErrStorage matches every error returned by a repository backend.
var ErrStorage = errors.New("storage error")

// StorageError wraps a backend failure with the repository operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
