// seehuhn.de/go/pdfcolor - colour space conversion for PDF rendering
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfcolor

import (
	"errors"
	"fmt"
)

// Kind classifies the errors returned by this module.
type Kind int

// These are the supported error kinds.
const (
	// InvalidArgument indicates bad channel counts, a wrong destination
	// kind, or mismatched buffer extents.
	InvalidArgument Kind = iota + 1

	// FormatError indicates that an ICC profile is inconsistent with the
	// colour space it was attached to.
	FormatError

	// LibraryError indicates a failure inside the colour management engine.
	LibraryError

	// OutOfRange indicates an invalid colorant index.
	OutOfRange

	// Unsupported indicates that a feature is not available.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case FormatError:
		return "format error"
	case LibraryError:
		return "library error"
	case OutOfRange:
		return "out of range"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinel values for use with [errors.Is].
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrFormat          = &Error{Kind: FormatError}
	ErrLibrary         = &Error{Kind: LibraryError}
	ErrOutOfRange      = &Error{Kind: OutOfRange}
	ErrUnsupported     = &Error{Kind: Unsupported}
)

// Error is the error type used throughout this module.
type Error struct {
	Kind Kind

	// Op names the operation which failed, e.g. "Indexed" or "NewConverter".
	Op string

	Err error
}

// Errorf returns a new error of the given kind.
func Errorf(kind Kind, op string, format string, args ...any) error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  fmt.Errorf(format, args...),
	}
}

// Wrap returns an error of the given kind which wraps err.
// If err is nil, Wrap returns nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (err *Error) Error() string {
	msg := err.Kind.String()
	if err.Err != nil {
		msg = err.Err.Error()
	}
	if err.Op != "" {
		return err.Op + ": " + msg
	}
	return msg
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is an *Error of the same kind.
// This allows to use the sentinel values like [ErrOutOfRange] with
// [errors.Is].
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == err.Kind && (t.Op == "" || t.Op == err.Op)
}

// KindOf returns the kind of the first *Error in err's chain,
// or 0 if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRecoverable reports whether err was caused by the colour management
// engine or by a missing feature.  Conversions recover from these errors by
// falling back to an approximate conversion.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case LibraryError, Unsupported:
		return true
	default:
		return false
	}
}
