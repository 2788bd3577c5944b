package errs

import (
	"errors"
	"fmt"
)

// ServiceUnreachableError reports a call that never got a response:
// DNS failure, refused connection, timeout, dropped socket.
type ServiceUnreachableError struct {
	Service string
	Cause   error
}

func NewServiceUnreachableError(service string) *ServiceUnreachableError {
	return &ServiceUnreachableError{Service: service}
}

func NewServiceUnreachableErrorWithCause(service string, cause error) *ServiceUnreachableError {
	return &ServiceUnreachableError{Service: service, Cause: cause}
}

func (e *ServiceUnreachableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrServiceUnreachable, e.Service), e.Cause)
}

func (e *ServiceUnreachableError) Unwrap() error {
	return ErrServiceUnreachable
}

// RequestRejectedError reports a call the service answered with a non-2xx status.
type RequestRejectedError struct {
	Service    string
	StatusCode int
	Message    string
}

func NewRequestRejectedError(service string, statusCode int, message string) *RequestRejectedError {
	return &RequestRejectedError{Service: service, StatusCode: statusCode, Message: message}
}

func (e *RequestRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s responded %d", ErrRequestRejected, e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s responded %d: %s", ErrRequestRejected, e.Service, e.StatusCode, sanitize(e.Message))
}

func (e *RequestRejectedError) Unwrap() error {
	return ErrRequestRejected
}

// IsUnreachable reports whether err, at any depth, means no response was received.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

// IsRejected reports whether err, at any depth, carries a server rejection.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRequestRejected)
}
