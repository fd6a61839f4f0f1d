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

	"golang.org/x/exp/slices"
)

// Type4 represents a PostScript calculator function.
//
// The program uses the operator subset of PDF Type 4 functions.  The
// inputs are pushed onto the operand stack, in order, before the program
// runs; the values left on the stack are the outputs.
type Type4 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...].
	Range []float64

	// Program is the PostScript code, with or without the enclosing braces.
	Program string

	code []instruction
}

// NewType4 returns a new calculator function.  The program is compiled
// once; an [*InvalidFunctionError] is returned if it is malformed.
func NewType4(domain, rng []float64, program string) (*Type4, error) {
	f := &Type4{
		Domain:  slices.Clone(domain),
		Range:   slices.Clone(rng),
		Program: program,
	}
	code, err := compile(program)
	if err != nil {
		return nil, newInvalidFunctionError(4, "Program", "%v", err)
	}
	f.code = code
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Shape returns the number of input and output values of the function.
func (f *Type4) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values.
//
// If the program fails, all outputs are zero, clipped to the range.
// Missing results are treated the same way, excess results are ignored.
func (f *Type4) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()
	if len(inputs) != m {
		panic(fmt.Sprintf("Type 4 function expects %d inputs, got %d", m, len(inputs)))
	}

	out := make([]float64, n)
	res, err := f.run(inputs)
	if err == nil {
		for i := range min(n, len(res)) {
			if numTag(res[i].tag) {
				out[i] = res[i].asFloat()
			}
		}
	}
	clipOutputs(out, f.Range)
	return out
}

func (f *Type4) run(inputs []float64) ([]value, error) {
	code := f.code
	if code == nil {
		var err error
		code, err = compile(f.Program)
		if err != nil {
			return nil, err
		}
	}

	stack := make([]value, len(inputs), len(inputs)+16)
	for i, x := range inputs {
		stack[i] = realVal(clip(x, f.Domain[2*i], f.Domain[2*i+1]))
	}
	return execute(code, stack)
}

func (f *Type4) validate() error {
	if len(f.Domain) == 0 || len(f.Domain)%2 != 0 {
		return newInvalidFunctionError(4, "Domain", "invalid length %d", len(f.Domain))
	}
	if len(f.Range) == 0 || len(f.Range)%2 != 0 {
		return newInvalidFunctionError(4, "Range", "invalid length %d", len(f.Range))
	}
	for i := 0; i < len(f.Domain); i += 2 {
		if !isRange(f.Domain[i], f.Domain[i+1]) {
			return newInvalidFunctionError(4, "Domain", "invalid range for input %d", i/2)
		}
	}
	for i := 0; i < len(f.Range); i += 2 {
		if !isRange(f.Range[i], f.Range[i+1]) {
			return newInvalidFunctionError(4, "Range", "invalid range for output %d", i/2)
		}
	}
	if f.code == nil {
		if _, err := compile(f.Program); err != nil {
			return newInvalidFunctionError(4, "Program", "%v", err)
		}
	}
	return nil
}
