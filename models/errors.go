package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a result parsing failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotFound means no file exists at the given path.
	KindNotFound
	// KindFormat means the file is not a result database.
	KindFormat
	// KindDecode means a time record is missing or carries an unknown interval code.
	KindDecode
	// KindReconstruction means the raw rows cannot be split into the requested series.
	KindReconstruction
	// KindNoMatch means none of the requested series matched the model.
	KindNoMatch
	// KindConsistency means series that must share a run period do not.
	KindConsistency
	// KindDatabase wraps driver level failures.
	KindDatabase
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindFormat:
		return "format"
	case KindDecode:
		return "decode"
	case KindReconstruction:
		return "reconstruction"
	case KindNoMatch:
		return "no match"
	case KindConsistency:
		return "consistency"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// Error is returned by every package of the module.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

// Sentinels for errors.Is. They only compare the Kind.
var (
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrFormat         = &Error{Kind: KindFormat}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrReconstruction = &Error{Kind: KindReconstruction}
	ErrNoMatch        = &Error{Kind: KindNoMatch}
	ErrConsistency    = &Error{Kind: KindConsistency}
	ErrDatabase       = &Error{Kind: KindDatabase}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels (no Op, no Message) by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func newError(kind ErrorKind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(op, format string, args ...interface{}) *Error {
	return newError(KindNotFound, op, format, args...)
}

func FormatError(op, format string, args ...interface{}) *Error {
	return newError(KindFormat, op, format, args...)
}

func DecodeError(op, format string, args ...interface{}) *Error {
	return newError(KindDecode, op, format, args...)
}

func ReconstructionError(op, format string, args ...interface{}) *Error {
	return newError(KindReconstruction, op, format, args...)
}

func NoMatchError(op, format string, args ...interface{}) *Error {
	return newError(KindNoMatch, op, format, args...)
}

func ConsistencyError(op, format string, args ...interface{}) *Error {
	return newError(KindConsistency, op, format, args...)
}

// DatabaseError wraps a driver error.
func DatabaseError(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Op: op, Message: "database query failed", Err: err}
}

// GetKind returns KindUnknown when err is not (and does not wrap) an *Error.
func GetKind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
