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
	"fmt"

	"seehuhn.de/go/pdfcolor"
)

// Some commonly used white points.
var (
	WhitePointD50 = []float64{0.9642, 1.0, 0.8249}
	WhitePointD65 = []float64{0.95047, 1.0, 1.08883}
)

// SpaceLab represents a CIE 1976 L*a*b* colour space.
//
// Colours use the ranges L ∈ [0, 100] and a, b ∈ [-128, 127].
type SpaceLab struct {
	whitePoint []float64
	blackPoint []float64
}

// LabD50 is the L*a*b* space with a D50 white point, the white point of the
// ICC profile connection space.
var LabD50 = &SpaceLab{
	whitePoint: WhitePointD50,
	blackPoint: []float64{0, 0, 0},
}

// Lab returns a new calibrated L*a*b* colour space.
//
// WhitePoint is the diffuse white point in CIE 1931 XYZ coordinates.  This
// must be a slice of length 3, with positive entries, and Y=1.
//
// BlackPoint (optional) is the diffuse black point in CIE 1931 XYZ
// coordinates.  If non-nil, this must be a slice of three non-negative
// numbers.  The default is [0 0 0].
func Lab(whitePoint, blackPoint []float64) (*SpaceLab, error) {
	if !isValidWhitePoint(whitePoint) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Lab", "invalid white point")
	}
	if blackPoint == nil {
		blackPoint = []float64{0, 0, 0}
	} else if !isValidBlackPoint(blackPoint) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Lab", "invalid black point")
	}
	return &SpaceLab{
		whitePoint: whitePoint,
		blackPoint: blackPoint,
	}, nil
}

// Kind returns [KindLab].
func (s *SpaceLab) Kind() Kind { return KindLab }

// Channels returns 3.
func (s *SpaceLab) Channels() int { return 3 }

// Name implements the [Space] interface.
func (s *SpaceLab) Name() string {
	return fmt.Sprintf("Lab(%.4g %.4g %.4g)", s.whitePoint[0], s.whitePoint[1], s.whitePoint[2])
}

// Flags returns 0.
func (s *SpaceLab) Flags() Flags { return 0 }

// WhitePoint returns the white point of the space.
func (s *SpaceLab) WhitePoint() []float64 {
	return append([]float64(nil), s.whitePoint...)
}

func (s *SpaceLab) isSpace() {}

func isValidWhitePoint(x []float64) bool {
	return len(x) == 3 &&
		x[0] > 0 &&
		x[1] > 1-ε && x[1] < 1+ε &&
		x[2] > 0
}

func isValidBlackPoint(x []float64) bool {
	return len(x) == 3 && x[0] >= 0 && x[1] >= 0 && x[2] >= 0
}

const ε = 1e-6
