package client

import (
	"fmt"
)

// The client-side error taxonomy. ValidationError never reaches the network;
// RequestError carries the backend's detail string; NetworkError means the
// transport failed before any response arrived.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Detail)
}

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// InvalidCodeError reports that a share code is unknown, expired, or has
// been unshared since it was issued.
type InvalidCodeError struct {
	Code string
}

func (e *InvalidCodeError) Error() string {
	return "invalid share code: " + e.Code
}

// errMessage picks the user-facing message for a failed operation: the
// backend's detail verbatim when there is one, the fallback otherwise.
func errMessage(err error, fallback string) string {
	if re, ok := err.(*RequestError); ok && re.Detail != "" {
		return re.Detail
	}
	return fallback
}
