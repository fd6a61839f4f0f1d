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

import "reflect"

// Func is a PDF function mapping m inputs to n outputs.
type Func interface {
	// Shape returns the number of input and output values of the function.
	Shape() (int, int)

	// Apply evaluates the function.  The number of inputs must match the
	// first value returned by Shape.
	Apply(inputs ...float64) []float64
}

// Check verifies that f is well-formed.
// Functions which don't implement a validate method are assumed to be valid.
func Check(f Func) error {
	if v, ok := f.(interface{ validate() error }); ok {
		return v.validate()
	}
	return nil
}

// Equal reports whether two functions have the same type and parameters.
func Equal(a, b Func) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
