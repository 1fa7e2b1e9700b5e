// Package status exports errors produced by the modulemd package.
package status

import "github.com/oneconcern/rpmsync/pkg/errors"

var (
	// ErrMalformedNSVCA indicates a stream identity with less than 5 colon-delimited fields
	ErrMalformedNSVCA = errors.New("malformed NSVCA")

	// ErrInvalidDocument indicates a YAML subdocument which could not be decoded
	ErrInvalidDocument = errors.New("invalid module document")

	// ErrUnknownDocument indicates a subdocument of an unsupported type or version
	ErrUnknownDocument = errors.New("unsupported module document")

	// ErrMissingField indicates a subdocument without one of its required fields
	ErrMissingField = errors.New("missing required field")
)
