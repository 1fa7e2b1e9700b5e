// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/rpmsync/pkg/errors"
)

var (
	// ErrMissingDeclaredArtifact indicates a content artifact which matches none of the
	// artifacts declared for its content
	ErrMissingDeclaredArtifact = errors.New("no declared artifact for content artifact")

	// ErrInvalidModule indicates a stored module stream with undecodable artifacts
	ErrInvalidModule = errors.New("invalid module stream")

	// ErrMissingAdvisory indicates advisory content declared without its update record
	ErrMissingAdvisory = errors.New("advisory content without update record")

	// ErrReadModules indicates that module documents could not be read
	ErrReadModules = errors.New("cannot read module documents")
)
