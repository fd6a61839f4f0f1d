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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfcolor"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestType2(t *testing.T) {
	f := &Type2{
		XMin: 0,
		XMax: 1,
		C0:   []float64{0, 0, 0, 0},
		C1:   []float64{0.1, 0.9, 0.2, 0},
		N:    1,
	}
	if err := Check(f); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		in   float64
		want []float64
	}{
		{0, []float64{0, 0, 0, 0}},
		{1, []float64{0.1, 0.9, 0.2, 0}},
		{0.5, []float64{0.05, 0.45, 0.1, 0}},
		{2, []float64{0.1, 0.9, 0.2, 0}}, // clipped
	}
	for _, c := range cases {
		got := f.Apply(c.in)
		if d := cmp.Diff(c.want, got, approx); d != "" {
			t.Errorf("Apply(%g): (-want +got)\n%s", c.in, d)
		}
	}
}

func TestType2Exponent(t *testing.T) {
	f := &Type2{XMin: 0, XMax: 1, C0: []float64{1}, C1: []float64{0}, N: 2}
	got := f.Apply(0.5)[0]
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("got %g, want 0.75", got)
	}
}

func TestType2Invalid(t *testing.T) {
	bad := []*Type2{
		{XMin: 1, XMax: 0, C0: []float64{0}, C1: []float64{1}, N: 1},
		{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1, 2}, N: 1},
		{XMin: -1, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 0.5},
		{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: math.NaN()},
	}
	for i, f := range bad {
		err := Check(f)
		if !errors.Is(err, &InvalidFunctionError{}) {
			t.Errorf("%d: expected InvalidFunctionError, got %v", i, err)
		}
		if !errors.Is(err, pdfcolor.ErrInvalidArgument) {
			t.Errorf("%d: error does not match ErrInvalidArgument", i)
		}
	}
}

func TestType3(t *testing.T) {
	f := &Type3{
		Domain: [2]float64{0, 1},
		Functions: []Func{
			&Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1},
			&Type2{XMin: 0, XMax: 1, C0: []float64{1}, C1: []float64{0}, N: 1},
		},
		Bounds: []float64{0.5},
		Encode: []float64{0, 1, 0, 1},
	}
	if err := Check(f); err != nil {
		t.Fatal(err)
	}

	cases := []struct{ in, want float64 }{
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.5},
		{1, 0},
	}
	for _, c := range cases {
		got := f.Apply(c.in)[0]
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Apply(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestType3Invalid(t *testing.T) {
	f := &Type3{
		Domain: [2]float64{0, 1},
		Functions: []Func{
			&Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1},
			&Type2{XMin: 0, XMax: 1, C0: []float64{1, 1}, C1: []float64{0, 0}, N: 1},
		},
		Bounds: []float64{0.5},
		Encode: []float64{0, 1, 0, 1},
	}
	if Check(f) == nil {
		t.Error("mismatched output counts not detected")
	}
}

func TestType0(t *testing.T) {
	// 2x2 grid, one output: f(x,y) = bilinear between the corners.
	f := &Type0{
		Domain:  []float64{0, 1, 0, 1},
		Range:   []float64{0, 1},
		Size:    []int{2, 2},
		Samples: []byte{0, 255, 255, 255},
	}
	if err := Check(f); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		x, y, want float64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 1, 1},
		{1, 1, 1},
		{0.5, 0, 0.5},
		{0.5, 0.5, 0.75},
	}
	for _, c := range cases {
		got := f.Apply(c.x, c.y)[0]
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Apply(%g, %g) = %g, want %g", c.x, c.y, got, c.want)
		}
	}
}

func TestType0Invalid(t *testing.T) {
	f := &Type0{
		Domain:  []float64{0, 1},
		Range:   []float64{0, 1, 0, 1},
		Size:    []int{3},
		Samples: []byte{1, 2, 3},
	}
	if Check(f) == nil {
		t.Error("short sample table not detected")
	}
}
