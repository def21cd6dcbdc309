package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyResult  = errors.New("empty result")
	ErrUnauthorized = errors.New("unauthorized")
)

// NetworkFailure covers transport errors and non-success HTTP statuses.
type NetworkFailure struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *NetworkFailure) Unwrap() error {
	return e.Err
}

// ServerRejection is a well-formed response whose status is false.
type ServerRejection struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("%s: rejected (code %d): %s", e.Endpoint, e.Code, e.Message)
}

func (e *ServerRejection) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// MalformedResponse is a payload that could not be decoded or failed
// validation.
type MalformedResponse struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponse) Unwrap() error {
	return e.Err
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNetwork
	KindEmpty
	KindRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindEmpty:
		return "empty"
	case KindRejected:
		return "rejected"
	}
	return "none"
}

// Classify maps an error onto the three kinds views care about. Malformed
// payloads are shown like network failures.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrEmptyResult) {
		return KindEmpty
	}
	var rejection *ServerRejection
	if errors.As(err, &rejection) {
		return KindRejected
	}
	return KindNetwork
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message returns the text worth showing to a user for err.
func Message(err error) string {
	var rejection *ServerRejection
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	return err.Error()
}
