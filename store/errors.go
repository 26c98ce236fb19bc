package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnboundedPageSize is returned before anything is sent when a search asks for
	// every row at once.
	ErrUnboundedPageSize = errors.New("page size \"all\" can't be sent to the store, paginate instead")
	ErrUnsupportedFormat = errors.New("unsupported result format")
)

// TransportError means the request never produced a response: dial failures, timeouts,
// cancelled contexts. It is the only retryable kind, and nothing here retries it.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport error: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the store answered but the body was not what a successful response
// looks like.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: couldn't decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StoreError is a request the store rejected, like a malformed predicate or a
// collection that doesn't exist.
type StoreError struct {
	Op      string
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store rejected request (status %d): %s", e.Op, e.Status, e.Message)
}

// MalformedDocumentError is a document that lacks a field every stored document is
// expected to carry.
type MalformedDocumentError struct {
	Field string
	ID    interface{}
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("document %v is missing field %s", e.ID, e.Field)
}

// IsRetryable reports whether a caller may reasonably try the same call again.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
