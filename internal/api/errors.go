package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork: no response was received.
	KindNetwork Kind = iota + 1
	// KindStatus: the server answered with a non-2xx status.
	KindStatus
	// KindRejected: 2xx, but the endpoint's success marker is missing.
	KindRejected
	// KindDecode: 2xx, but the body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

const (
	networkMessage  = "Network error: Unable to connect to server. Please check your connection and ensure the server is running."
	genericMessage  = "Request failed"
	rejectedMessage = "Operation failed"
	decodeMessage   = "Unexpected response from server"
)

// Error is returned by every Client call. Error() is the user-facing text.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
