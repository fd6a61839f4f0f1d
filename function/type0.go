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

// Type0 represents a sampled function.  The samples are stored as 8-bit
// values and are interpolated multilinearly.
type Type0 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...].
	Range []float64

	// Size gives the number of samples in each input dimension.
	// Every entry must be at least 2.
	Size []int

	// Encode maps inputs to sample table indices.
	// If this is nil, [0, Size[0]-1, 0, Size[1]-1, ...] is used.
	Encode []float64

	// Decode maps samples to the output range.
	// If this is nil, Range is used.
	Decode []float64

	// Samples contains n bytes for every grid point, with the first input
	// dimension varying fastest.
	Samples []byte
}

// Shape returns the number of input and output values of the function.
func (f *Type0) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values.
func (f *Type0) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()
	if len(inputs) != m {
		panic(fmt.Sprintf("Type 0 function expects %d inputs, got %d", m, len(inputs)))
	}

	// Position of the input in the sample grid, split into the integer
	// cell index and the fractional offset.
	cell := make([]int, m)
	frac := make([]float64, m)
	for i := range m {
		x := clip(inputs[i], f.Domain[2*i], f.Domain[2*i+1])
		e0, e1 := 0.0, float64(f.Size[i]-1)
		if f.Encode != nil {
			e0, e1 = f.Encode[2*i], f.Encode[2*i+1]
		}
		e := interpolate(x, f.Domain[2*i], f.Domain[2*i+1], e0, e1)
		e = clip(e, 0, float64(f.Size[i]-1))
		c := int(e)
		if c >= f.Size[i]-1 {
			c = f.Size[i] - 2
		}
		cell[i] = c
		frac[i] = e - float64(c)
	}

	acc := make([]float64, n)
	for corner := range 1 << m {
		w := 1.0
		offs := 0
		stride := 1
		for i := range m {
			idx := cell[i]
			if corner&(1<<i) != 0 {
				idx++
				w *= frac[i]
			} else {
				w *= 1 - frac[i]
			}
			offs += idx * stride
			stride *= f.Size[i]
		}
		if w == 0 {
			continue
		}
		base := offs * n
		for j := range n {
			acc[j] += w * float64(f.Samples[base+j])
		}
	}

	decode := f.Decode
	if decode == nil {
		decode = f.Range
	}
	for j := range n {
		acc[j] = interpolate(acc[j], 0, 255, decode[2*j], decode[2*j+1])
	}
	clipOutputs(acc, f.Range)
	return acc
}

func (f *Type0) validate() error {
	if len(f.Domain) == 0 || len(f.Domain)%2 != 0 {
		return newInvalidFunctionError(0, "Domain", "invalid length %d", len(f.Domain))
	}
	if len(f.Range) == 0 || len(f.Range)%2 != 0 {
		return newInvalidFunctionError(0, "Range", "invalid length %d", len(f.Range))
	}
	m, n := f.Shape()
	if m > 16 {
		return newInvalidFunctionError(0, "Domain", "too many inputs (%d)", m)
	}
	for i := range m {
		if !isRange(f.Domain[2*i], f.Domain[2*i+1]) {
			return newInvalidFunctionError(0, "Domain", "invalid range for input %d", i)
		}
	}
	if len(f.Size) != m {
		return newInvalidFunctionError(0, "Size", "expected %d values, got %d", m, len(f.Size))
	}
	total := n
	for _, s := range f.Size {
		if s < 2 {
			return newInvalidFunctionError(0, "Size", "need at least 2 samples, got %d", s)
		}
		total *= s
	}
	if len(f.Samples) != total {
		return newInvalidFunctionError(0, "Samples", "expected %d bytes, got %d",
			total, len(f.Samples))
	}
	if f.Encode != nil && len(f.Encode) != 2*m {
		return newInvalidFunctionError(0, "Encode", "expected %d values, got %d",
			2*m, len(f.Encode))
	}
	if f.Decode != nil && len(f.Decode) != 2*n {
		return newInvalidFunctionError(0, "Decode", "expected %d values, got %d",
			2*n, len(f.Decode))
	}
	return nil
}
