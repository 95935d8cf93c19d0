package objstore

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidResponse is returned when no usable HTTP response was
	// received, or when the request could not be built from the configured
	// endpoint or the given input.
	ErrInvalidResponse = errors.New("objstore: invalid response")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("objstore: not found")
	// ErrPaginationDone is returned by NextPage once the last page was read
	// or a previous page failed.
	ErrPaginationDone = errors.New("objstore: no more pages")
)

// HTTPError is returned for non-success responses. Code and Message are
// taken from the S3 error document when the server sent one.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("objstore: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("objstore: HTTP %d: %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("objstore: HTTP %d %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("objstore: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// NotFoundError is returned by Download when the key does not exist.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("objstore: key %q not found", e.Key)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// XMLParseError is returned when a list or error document is not well
// formed.
type XMLParseError struct {
	Err error
}

func (e *XMLParseError) Error() string {
	return "objstore: malformed XML: " + e.Err.Error()
}

func (e *XMLParseError) Unwrap() error {
	return e.Err
}
