package common

import "fmt"

// PersistenceError reports a backend I/O failure (disk full, permission
// denied, lock contention, lost connection). It is never used for ordinary
// lookup misses, which are reported as ErrorNotFound.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err as a *PersistenceError for operation op.
// A nil err yields nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) true for any *PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
