package memory

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by delete or targeted lookups on a fragment
// ID that does not exist in the collection.
var ErrNotFound = errors.New("fragment not found")

// ValidationError reports malformed caller input: empty content,
// non-positive result counts, importance filters outside [0,1].
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// CollaboratorError reports a failure of an external collaborator (the
// embedding function or the vector index). It is always surfaced to
// the caller: swallowing it during the dedup candidate query would
// risk unbounded duplicate insertion.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// ChunkError reports which chunk of a store operation failed. Chunks
// committed before the failure stay committed; their IDs are returned
// alongside the error.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
