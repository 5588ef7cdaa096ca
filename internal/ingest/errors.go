package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by Widget.Drop while an upload is in flight.
	ErrBusy = errors.New("upload already in progress")
	// ErrClosed is returned by Widget.Drop after Close.
	ErrClosed = errors.New("widget closed")
	// ErrCancelled wraps context.Canceled when an in-flight upload is aborted.
	ErrCancelled = errors.New("upload cancelled")
)

const (
	invalidTypeMessage  = "Solo se aceptan archivos Excel (.xlsx, .xls)"
	tooManyFilesMessage = "Solo se acepta un archivo a la vez"
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Name    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StatusError reports a non-2xx answer from the API. The body is not read.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Code, e.Status)
}

// TransportError reports a failure below HTTP (DNS, refused connection,
// timeout). Its message is the underlying error's message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
