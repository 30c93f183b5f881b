// Package apperr defines the error kinds surfaced by the lookup engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupportedCommand
	KindInvalidDatabasePath
	KindUnloadedDatabase
	KindParse
	KindLookup
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedCommand:
		return "unsupported_command"
	case KindInvalidDatabasePath:
		return "invalid_database_path"
	case KindUnloadedDatabase:
		return "unloaded_database"
	case KindParse:
		return "parse"
	case KindLookup:
		return "lookup"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is an engine error of a given Kind, optionally wrapping a lower-level cause.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrUnsupportedCommand  = &Error{Kind: KindUnsupportedCommand}
	ErrInvalidDatabasePath = &Error{Kind: KindInvalidDatabasePath}
	ErrUnloadedDatabase    = &Error{Kind: KindUnloadedDatabase}
	ErrParse               = &Error{Kind: KindParse}
	ErrLookup              = &Error{Kind: KindLookup}
	ErrBackend             = &Error{Kind: KindBackend}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindUnsupportedCommand:
		msg = "unsupported command"
	case KindInvalidDatabasePath:
		msg = "invalid database path"
	case KindUnloadedDatabase:
		msg = "database not loaded"
	case KindParse:
		msg = "failed to parse record"
	case KindLookup:
		msg = "address not found"
	case KindBackend:
		msg = "backend failure"
	default:
		msg = "unknown error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrLookup) holds for any lookup failure regardless of cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap returns err classified as kind. A nil err yields nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of err. Errors that carry no Kind are backend errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}
