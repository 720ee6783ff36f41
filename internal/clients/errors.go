package clients

import (
	"fmt"

	"github.com/pkg/errors"
)

// TransportError means no usable business response was obtained: network
// failure, timeout, non-2xx status or a malformed envelope. Never conflated
// with a business failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BusinessError is a daemon response whose code is not SUCCESS. Desc is a
// human-readable reason meant to be shown to the user verbatim; the biz
// payload of such a response is never parsed.
type BusinessError struct {
	Code string
	Desc string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Desc)
}

// AsBusiness extracts a BusinessError from an error chain.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
