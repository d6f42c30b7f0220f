package tvmaze

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies request failures.
type ErrorKind int

const (
	// KindUnknown covers transport failures and anything unclassified.
	KindUnknown ErrorKind = iota
	// KindInvalidStatus is a non-2xx status that is not an error status.
	KindInvalidStatus
	// KindDecoding means the body did not match the expected shape.
	KindDecoding
	// KindBackend is a 4xx or 5xx answer; Body holds the raw response.
	KindBackend
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidStatus:
		return "invalid status"
	case KindDecoding:
		return "decoding"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is returned by every Client request.
type Error struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBackend, KindInvalidStatus:
		return fmt.Sprintf("tvmaze: %s: %s error: status %d", e.Endpoint, e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("tvmaze: %s: %s error: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindBackend && apiErr.StatusCode == http.StatusNotFound
}

func retryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindUnknown:
		return true
	case KindBackend:
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
