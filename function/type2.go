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
	"fmt"
	"math"
)

// Type2 represents a power interpolation function, of the form y = C0 + x^N ×
// (C1 - C0).  These functions have a single input x and one or more outputs.
// The PDF specification refers to this type of function as "exponential
// interpolation".
//
// A Type2 function with N=1 is the usual tint transform of a Separation
// colour space: tint 0 maps to C0 (no ink) and tint 1 to C1 (full ink).
type Type2 struct {
	// XMin and XMax give the input range.  Inputs outside this range are
	// clipped.
	XMin, XMax float64

	// Range (optional) defines clipping ranges for the outputs, in the form
	// [min0, max0, min1, max1, ...].
	Range []float64

	// C0 is the function result for x = 0.
	C0 []float64

	// C1 is the function result for x = 1.
	C1 []float64

	// N is the interpolation exponent.
	N float64
}

// Shape returns the number of input and output values of the function.
func (f *Type2) Shape() (int, int) {
	return 1, len(f.C0)
}

// Apply applies the function to the given input value.
func (f *Type2) Apply(inputs ...float64) []float64 {
	if len(inputs) != 1 {
		panic(fmt.Sprintf("Type 2 function expects 1 input, got %d", len(inputs)))
	}

	x := clip(inputs[0], f.XMin, f.XMax)

	var xPowN float64
	switch f.N {
	case 0:
		xPowN = 1
	case 1:
		xPowN = x
	default:
		xPowN = math.Pow(x, f.N)
	}

	n := len(f.C0)
	outputs := make([]float64, n)
	for i := range n {
		outputs[i] = f.C0[i] + xPowN*(f.C1[i]-f.C0[i])
	}
	clipOutputs(outputs, f.Range)

	return outputs
}

func (f *Type2) validate() error {
	if !isRange(f.XMin, f.XMax) {
		return newInvalidFunctionError(2, "XMin/XMax", "invalid domain [%g,%g]",
			f.XMin, f.XMax)
	}
	if len(f.C0) < 1 || len(f.C0) != len(f.C1) {
		return newInvalidFunctionError(2, "C0/C1", "invalid length %d,%d",
			len(f.C0), len(f.C1))
	}
	if f.Range != nil && len(f.Range) != 2*len(f.C0) {
		return newInvalidFunctionError(2, "Range", "expected %d values, got %d",
			2*len(f.C0), len(f.Range))
	}
	if !isFinite(f.N) {
		return newInvalidFunctionError(2, "N", "must be a finite number, got %g", f.N)
	}
	if f.N != math.Trunc(f.N) && f.XMin < 0 {
		return newInvalidFunctionError(2, "Domain",
			"minimum must be >= 0 when N is non-integer, got %f", f.XMin)
	}
	if f.N < 0 && f.XMin <= 0 && f.XMax >= 0 {
		return newInvalidFunctionError(2, "Domain", "must not include 0 when N is negative")
	}
	return nil
}
