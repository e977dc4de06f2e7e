package record

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no record matched the id, prefix or id list.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a required field, search string or id list was
	// missing or blank.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means a record with the same name already exists, or the
	// id has been used before.
	ErrConflict = errors.New("conflict")
)

// StorageError wraps a failure of the underlying datastore.
// Unlike the sentinel errors it is not a routine outcome.
type StorageError struct {
	Op  string // operation that failed, e.g. "list contacts"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for op.
// Returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
