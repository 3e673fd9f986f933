// Package apperrors defines the error taxonomy of the listing pipeline.
// All three error kinds are recovered locally: the pipeline degrades to an
// empty listing instead of propagating them to the caller.
package apperrors

import "fmt"

// NetworkError represents a transport failure or a non-success upstream status.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("upstream fetch %s returned status %d", e.URL, e.Status)
}

// Is allows for error checking with errors.Is().
func (e *NetworkError) Is(target error) bool {
	_, ok := target.(*NetworkError)
	return ok
}

// Unwrap returns the underlying transport error, if any.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError for a failed transport call.
func NewNetworkError(url string, err error) *NetworkError {
	return &NetworkError{URL: url, Err: err}
}

// NewStatusError creates a NetworkError for a non-success upstream status.
func NewStatusError(url string, status int) *NetworkError {
	return &NetworkError{URL: url, Status: status}
}

// ParseError represents a fundamentally malformed upstream payload.
type ParseError struct {
	Format string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s listing: %v", e.Format, e.Err)
}

// Is allows for error checking with errors.Is().
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError for the given wire format.
func NewParseError(format string, err error) *ParseError {
	return &ParseError{Format: format, Err: err}
}

// ShapeError represents a JSON payload that decoded but does not match the
// expected listing envelope. It is the permissive failure path: callers treat
// it as zero records and it is never logged at error level.
type ShapeError struct {
	Field string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("listing envelope field %q has unexpected shape", e.Field)
}

// Is allows for error checking with errors.Is().
func (e *ShapeError) Is(target error) bool {
	_, ok := target.(*ShapeError)
	return ok
}

// NewShapeError creates a new ShapeError for the given envelope field.
func NewShapeError(field string) *ShapeError {
	return &ShapeError{Field: field}
}
