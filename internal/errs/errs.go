// Package errs defines the error taxonomy shared by the mockup renderer.
//
// Every failure the core can produce carries a Code. The compositor uses the
// code to decide whether a failure only drops one layer (see Recoverable) or
// aborts the whole render.
//
//	err := errs.Wrap(errs.CodeDownloadFailed, cause, "GET %s", url)
//	if errs.Is(err, errs.CodeDownloadFailed) {
//	    // skip the layer
//	}
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeReferenceNotFound Code = "REFERENCE_NOT_FOUND"
	CodeFileNotFound      Code = "FILE_NOT_FOUND"
	CodeDownloadFailed    Code = "DOWNLOAD_FAILED"
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	CodeDecodeFailed      Code = "DECODE_FAILED"
	CodeInvalidGeometry   Code = "INVALID_GEOMETRY"
	CodeSurfaceInitFailed Code = "SURFACE_INIT_FAILED"
	CodeExportFailed      Code = "EXPORT_FAILED"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeStoreFailed       Code = "STORE_FAILED"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// ErrNotFound is returned by collaborators (upload lookup, sinks) when a
// named item does not exist.
var ErrNotFound = errors.New("not found")

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to cause. A nil cause yields nil.
func Wrap(code Code, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf returns the code of the outermost *Error in err's chain, or
// CodeInternal if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// Recoverable reports whether err only invalidates a single slot or element.
// Reference, download, format and decode failures are recoverable; geometry,
// surface and export failures are not.
func Recoverable(err error) bool {
	switch CodeOf(err) {
	case CodeReferenceNotFound, CodeFileNotFound, CodeDownloadFailed,
		CodeUnsupportedFormat, CodeDecodeFailed:
		return true
	}
	return false
}

// Fatal reports whether err must abort a render. Only geometry, surface and
// export failures do; everything else drops the layer that produced it.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case CodeInvalidGeometry, CodeSurfaceInitFailed, CodeExportFailed:
		return true
	}
	return false
}
