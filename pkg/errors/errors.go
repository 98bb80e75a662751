// Package errors provides structured error handling for the cellseg engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindEmptyRegion indicates a degenerate polygon that encloses no pixels.
	KindEmptyRegion
	// KindFormat indicates an unrecognized mask file payload.
	KindFormat
	// KindIO indicates a failed read or write of a mask file.
	KindIO
	// KindDecode indicates an image that could not be decoded.
	KindDecode
	// KindState indicates an operation rejected in the current engine state.
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyRegion:
		return "empty-region"
	case KindFormat:
		return "format"
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// SegError represents a structured error in the cellseg engine.
type SegError struct {
	// Op is the operation that failed (e.g., "maskfile.Decode").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Path is the file involved, if applicable.
	Path string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SegError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SegError) Unwrap() error {
	return e.Err
}

// E constructs a SegError.
func E(op string, kind ErrorKind, err error) *SegError {
	return &SegError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// KindOf returns the ErrorKind of err, or KindUnknown if err is not a SegError.
func KindOf(err error) ErrorKind {
	if se, ok := err.(*SegError); ok {
		return se.Kind
	}
	return KindUnknown
}
