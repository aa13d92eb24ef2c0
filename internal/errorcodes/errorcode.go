// Package errorcodes defines host interface errors using a structured type.
// HostError holds the two-character code and human-readable description.
package errorcodes

import (
	"errors"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

// Predefined host error instances.
var (
	Err00 = HostError{"00", "No error"}
	Err15 = HostError{
		"15",
		"Invalid input data (invalid format, invalid characters, or not enough data provided)",
	}
	Err41 = HostError{"41", "Internal software error"}
	Err68 = HostError{"68", "Command has been disabled or is unknown"}
	Err80 = HostError{"80", "Data length error"}
)

// HostError represents a host error with its code and description.
type HostError struct {
	Code        string // two-character error code
	Description string // human-readable description
}

// Error implements the Go error interface: "<Code>: <Description>".
func (e HostError) Error() string {
	return e.Code + ": " + e.Description
}

// CodeOnly returns only the error code (e.g., "68"), for embedding in host responses.
func (e HostError) CodeOnly() string {
	return e.Code
}

// FromError maps an engine error to the host error reported on the wire.
// HostError values pass through; unknown errors become Err41.
func FromError(err error) HostError {
	if err == nil {
		return Err00
	}

	var he HostError
	if errors.As(err, &he) {
		return he
	}

	switch emverr.KindOf(err) {
	case emverr.KindValidation, emverr.KindStructure:
		return Err15
	case emverr.KindMalformedTLV, emverr.KindInvalidLength:
		return Err80
	default:
		return Err41
	}
}
