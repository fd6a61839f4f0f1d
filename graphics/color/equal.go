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

package color

import (
	"bytes"
	"math"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/pdfcolor/function"
)

// floatEpsilon is the tolerance for comparing floating point values.
const floatEpsilon = 1e-9

// Equal reports whether two colour spaces represent the same colour space.
func Equal(a, b Space) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch va := a.(type) {
	case spaceDevice:
		_, ok := b.(spaceDevice)
		return ok

	case *SpaceLab:
		if vb, ok := b.(*SpaceLab); ok {
			return floatSlicesEqual(va.whitePoint, vb.whitePoint, floatEpsilon) &&
				floatSlicesEqual(va.blackPoint, vb.blackPoint, floatEpsilon)
		}

	case *SpaceICCBased:
		if vb, ok := b.(*SpaceICCBased); ok {
			return va.profile.Digest() == vb.profile.Digest()
		}

	case *SpaceIndexed:
		if vb, ok := b.(*SpaceIndexed); ok {
			return va.High == vb.High &&
				Equal(va.Base, vb.Base) &&
				bytes.Equal(va.lookup, vb.lookup)
		}

	case *SpaceSeparation:
		if vb, ok := b.(*SpaceSeparation); ok {
			return va.deviceN == vb.deviceN &&
				slices.Equal(va.colorants, vb.colorants) &&
				Equal(va.Base, vb.Base) &&
				function.Equal(va.Tint, vb.Tint)
		}
	}

	return false
}

// floatSlicesEqual compares two float64 slices for equality with a given
// tolerance.
func floatSlicesEqual(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
