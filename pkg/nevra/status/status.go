// Package status exports errors produced by the nevra package.
package status

import "github.com/oneconcern/rpmsync/pkg/errors"

var (
	// ErrInvalidNEVRA indicates a package identifier without a parsable arch suffix
	ErrInvalidNEVRA = errors.New("invalid nevra")

	// ErrInvalidNEVR indicates a package identifier without name, version or release
	ErrInvalidNEVR = errors.New("invalid nevr")
)
