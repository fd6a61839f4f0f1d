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

package function

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfcolor"
)

// InvalidFunctionError is returned by [Check] and [NewType4] when the
// parameters of a function are inconsistent.
//
// InvalidFunctionError matches [pdfcolor.ErrInvalidArgument] in calls to
// [errors.Is].
type InvalidFunctionError struct {
	FunctionType int
	Field        string
	Message      string
}

func (e *InvalidFunctionError) Error() string {
	return fmt.Sprintf("function type %d: invalid %s: %s", e.FunctionType, e.Field, e.Message)
}

// Is reports whether target is an [*InvalidFunctionError] or an
// invalid-argument error.
func (e *InvalidFunctionError) Is(target error) bool {
	switch t := target.(type) {
	case *InvalidFunctionError:
		return true
	case *pdfcolor.Error:
		return t.Kind == pdfcolor.InvalidArgument && t.Op == ""
	default:
		return false
	}
}

func newInvalidFunctionError(functionType int, field, format string, args ...any) *InvalidFunctionError {
	return &InvalidFunctionError{
		FunctionType: functionType,
		Field:        field,
		Message:      fmt.Sprintf(format, args...),
	}
}

// Errors reported by calculator programs while they run.
var (
	errStackUnderflow = errors.New("stack underflow")
	errStackOverflow  = errors.New("stack overflow")
	errTypeMismatch   = errors.New("type mismatch")
	errDivByZero      = errors.New("division by zero")
	errRange          = errors.New("argument out of range")
)
