// internal/infrastructure/api/errors.go
package api

import (
	"errors"
	"fmt"
)

// RejectionError is returned when the request reached the server and the server
// declined it: a {success:false} envelope or a non-2xx status. Its message is meant
// to be shown to the user as-is.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// TransportError covers everything that prevented a usable response: encoding the
// request, the network round trip, or decoding the body.
type TransportError struct {
	Op     string // encode, send, read, decode
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsRejection reports whether err is, or wraps, a server rejection
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// IsTransport reports whether err is, or wraps, a transport failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
