package staging

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection is returned by Submit when nothing is staged.
	ErrEmptySelection = errors.New("no files selected for upload")
	// ErrSubmissionInFlight is returned by Submit while a request is running.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("controller closed")
	// ErrIndexOutOfRange is returned by Remove for a bad position.
	ErrIndexOutOfRange = errors.New("no staged file at that position")
	// ErrEntryBusy is returned by Remove for a file that is being uploaded.
	ErrEntryBusy = errors.New("file is being uploaded")
)

// HTTPError means the server answered with a non-2xx status.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned HTTP %d", e.StatusCode)
}

// ProtocolError means the server answered 2xx with a body that could not
// be decoded. Payload keeps the raw body for diagnostics.
type ProtocolError struct {
	Payload []byte
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
