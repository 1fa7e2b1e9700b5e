// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/store and one
// of its implementations.
package status

import "github.com/oneconcern/rpmsync/pkg/errors"

var (
	// ErrNotFound indicates that the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates that a record violates a uniqueness constraint
	ErrConflict = errors.New("conflicting record")

	// ErrNameRequired indicates that a record was submitted without its key
	ErrNameRequired = errors.New("name is required")

	// ErrNotInitialized indicates that the store was used before Initialize
	ErrNotInitialized = errors.New("store is not initialized")
)
