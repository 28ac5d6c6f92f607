package errors

import (
	"errors"
	"fmt"
)

const (
	STAGE_BEFORE_REQUEST = "before-request"
	STAGE_REQUEST        = "request"
	STAGE_AFTER_REQUEST  = "after-request"

	TYPE_UNKNOWN      = "unknown"
	TYPE_JSON_PARSE   = "json"
	TYPE_XML_PARSE    = "xml"
	TYPE_REQUEST_PREP = "request-prep"

	// TYPE_IO is a connection-level failure: timeout, DNS failure,
	// connection refused. No response was received.
	TYPE_IO = "io"

	// TYPE_HTTP_STATUS is a remote rejection: the directory answered
	// with a non-2xx status and (usually) a body.
	TYPE_HTTP_STATUS = "not-ok-http-status"

	// TYPE_PROTOCOL marks an unexpected content shape: an HTML error
	// page where JSON/XML was documented, or a malformed JSON/XML body.
	TYPE_PROTOCOL = "protocol-mismatch"

	// TYPE_INVALID_DATA is bad input caught before any network call:
	// a record with no resolvable identifier, a malformed envelope,
	// a record count out of bounds.
	TYPE_INVALID_DATA = "invalid-data"

	// TYPE_INTERNAL is an unexpected fault inside the per-record path,
	// converted to a failure at the record boundary.
	TYPE_INTERNAL = "internal-fault"
)

type ApiError struct {
	Stage          string
	Type           string
	SourceErr      error
	Body           []byte
	HttpStatusCode int
}

var _ error = &ApiError{}

func (e *ApiError) Error() string {
	var err string
	if e.SourceErr != nil {
		err = e.SourceErr.Error()
	} else {
		err = string(e.Body)
	}
	return fmt.Sprintf(
		"http request to Litmos failed during '%s' stage with error type '%s', httpStatus: '%d'; original err: %v",
		e.Stage, e.Type, e.HttpStatusCode, err,
	)
}

// Is method is required by errors.Is() to properly distinguish between
// different types -vs- same pointer to the same type.
// Without it, errors.Is(err, &ApiError{}) returns false:
// ok := errors.Is(errors.Join(&ApiError{}), &ApiError{})
// ^ would be false
func (e *ApiError) Is(other error) bool {
	var err *ApiError
	return errors.As(other, &err) && err != nil
}

// IsNoResponse reports whether err represents a transport failure with
// no HTTP response at all (as opposed to a remote rejection).
func IsNoResponse(err error) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type == TYPE_IO && apiErr.HttpStatusCode == 0
}
