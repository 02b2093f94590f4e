package parser

import (
	"errors"
	"fmt"
)

// ErrStructure is matched by every ParseError.
var ErrStructure = errors.New("page structure changed")

// ParseError reports a mandatory marker that could not be located or decoded.
type ParseError struct {
	Marker string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Marker, e.Err)
	}
	return e.Marker + " not found"
}

// Unwrap exposes the decoding error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStructure.
func (e *ParseError) Is(target error) bool {
	return target == ErrStructure
}

func missing(marker string) error {
	return &ParseError{Marker: marker}
}

func invalid(marker string, err error) error {
	return &ParseError{Marker: marker, Err: err}
}
