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

import "fmt"

// Type3 represents a piecewise defined function with a single input.
// The PDF specification refers to this as a "stitching function".
type Type3 struct {
	// Domain defines the overall input range as [min, max].
	Domain [2]float64

	// Range (optional) defines the valid output ranges as [min0, max0, min1,
	// max1, ...].
	Range []float64

	// Functions is the list of k functions to be combined.
	// All functions must have 1 input and the same number of outputs.
	Functions []Func

	// Bounds defines the boundaries between subdomains.
	// It must have k-1 elements, in increasing order, within the domain.
	Bounds []float64

	// Encode maps each subdomain to the corresponding function's domain as
	// [min0, max0, min1, max1, ...].
	Encode []float64
}

// Shape returns the number of input and output values of the function.
func (f *Type3) Shape() (int, int) {
	_, n := f.Functions[0].Shape()
	return 1, n
}

// Apply applies the function to the given input value.
func (f *Type3) Apply(inputs ...float64) []float64 {
	if len(inputs) != 1 {
		panic(fmt.Sprintf("Type 3 function expects 1 input, got %d", len(inputs)))
	}
	x := clip(inputs[0], f.Domain[0], f.Domain[1])

	i, lo, hi := f.findSubdomain(x)
	encoded := interpolate(x, lo, hi, f.Encode[2*i], f.Encode[2*i+1])

	outputs := f.Functions[i].Apply(encoded)
	clipOutputs(outputs, f.Range)
	return outputs
}

// findSubdomain returns the index of the function responsible for x,
// together with the boundaries of its subdomain.
//
// Intervals are half-open [a, b), except for the last one which is closed.
// If Domain[0] == Bounds[0], the first interval consists of this single point.
func (f *Type3) findSubdomain(x float64) (int, float64, float64) {
	k := len(f.Functions)
	if len(f.Bounds) == 0 {
		return 0, f.Domain[0], f.Domain[1]
	}

	if f.Domain[0] == f.Bounds[0] {
		if x == f.Domain[0] {
			return 0, f.Domain[0], f.Bounds[0]
		}
	} else if x < f.Bounds[0] {
		return 0, f.Domain[0], f.Bounds[0]
	}

	for i := 0; i < len(f.Bounds)-1; i++ {
		if x < f.Bounds[i+1] {
			return i + 1, f.Bounds[i], f.Bounds[i+1]
		}
	}
	return k - 1, f.Bounds[len(f.Bounds)-1], f.Domain[1]
}

func (f *Type3) validate() error {
	if !isRange(f.Domain[0], f.Domain[1]) {
		return newInvalidFunctionError(3, "Domain", "invalid domain [%g,%g]",
			f.Domain[0], f.Domain[1])
	}
	k := len(f.Functions)
	if k == 0 {
		return newInvalidFunctionError(3, "Functions", "must not be empty")
	}
	if len(f.Bounds) != k-1 {
		return newInvalidFunctionError(3, "Bounds", "expected %d values, got %d",
			k-1, len(f.Bounds))
	}
	if len(f.Encode) != 2*k {
		return newInvalidFunctionError(3, "Encode", "expected %d values, got %d",
			2*k, len(f.Encode))
	}

	_, n := f.Functions[0].Shape()
	for i, fn := range f.Functions {
		m, ni := fn.Shape()
		if m != 1 || ni != n {
			return newInvalidFunctionError(3, "Functions",
				"function %d has shape %d->%d, expected 1->%d", i, m, ni, n)
		}
		if err := Check(fn); err != nil {
			return err
		}
	}

	prev := f.Domain[0]
	for i, b := range f.Bounds {
		if b < prev || b > f.Domain[1] || (i > 0 && b == prev) {
			return newInvalidFunctionError(3, "Bounds", "not increasing within domain")
		}
		prev = b
	}
	return nil
}
