package search

import "errors"

// Messages returned to API clients. They are part of the public contract.
const (
	InvalidStatusMessage  = "Invalid status value. Allowed values are: APPROVED, REQUESTED, EXPIRED."
	StreetRequiredMessage = "street name required"
	TooManyResultsMessage = "Too many results found. Please refine your search."
	CoordinatesMessage    = "latitude and longitude must be finite numbers"
)

var (
	// ErrInvalidArgument marks malformed or out-of-domain input. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTooManyResults is returned when a name or street search matches more
	// than MaxResults facilities. The caller should narrow the query.
	ErrTooManyResults = errors.New("too many results")
)

// ArgumentError describes which input was rejected and why.
type ArgumentError struct {
	Field   string
	Message string
	Err     error
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func (e *ArgumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidArgument}
	}
	return []error{ErrInvalidArgument, e.Err}
}

func newArgumentError(field, message string, cause error) *ArgumentError {
	return &ArgumentError{Field: field, Message: message, Err: cause}
}

// Message returns the client-facing text for a search error, or "" when the
// error is not one the engine produces.
func Message(err error) string {
	var argErr *ArgumentError
	switch {
	case errors.As(err, &argErr):
		return argErr.Message
	case errors.Is(err, ErrTooManyResults):
		return TooManyResultsMessage
	case errors.Is(err, ErrInvalidArgument):
		return err.Error()
	}
	return ""
}
