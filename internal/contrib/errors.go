package contrib

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline. Callers branch with errors.Is.
var (
	// ErrNotFound means the referenced contribution, hero, or skin does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the contribution is already in a
	// terminal state. Terminal states are immutable.
	ErrInvalidTransition = errors.New("contribution already resolved")
)

// ValidationError reports a rejected submission payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid contribution: %s", e.Reason)
	}
	return fmt.Sprintf("invalid contribution: %s: %s", e.Field, e.Reason)
}

// MergeError reports an approval whose merge could not be applied. The
// contribution stays pending and the dataset is untouched.
type MergeError struct {
	ContributionID string
	Err            error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge %s: %v", e.ContributionID, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// PersistenceError reports a failed read or write of the document store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
