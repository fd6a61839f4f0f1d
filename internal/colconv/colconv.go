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

// Package colconv implements closed-form approximate conversions between the
// process colour models.  These formulas are used whenever no profile-based
// transform is available.
package colconv

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Model identifies a process colour model.
type Model int

// These are the supported colour models.
const (
	Gray Model = iota + 1
	RGB
	BGR
	CMYK
	Lab
)

// Channels returns the number of components of the colour model.
func (m Model) Channels() int {
	switch m {
	case Gray:
		return 1
	case RGB, BGR, Lab:
		return 3
	case CMYK:
		return 4
	default:
		return 0
	}
}

func (m Model) String() string {
	switch m {
	case Gray:
		return "Gray"
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	case CMYK:
		return "CMYK"
	case Lab:
		return "Lab"
	default:
		return "unknown"
	}
}

// D50 is the PCS white point in CIE 1931 XYZ coordinates.
var D50 = f64.Vec3{0.9642, 1.0, 0.8249}

// sRGB primaries, Bradford-adapted to D50.
var (
	srgbToXYZ = f64.Mat3{
		0.4360747, 0.3850649, 0.1430804,
		0.2225045, 0.7168786, 0.0606169,
		0.0139322, 0.0971045, 0.7141733,
	}
	xyzToSRGB = f64.Mat3{
		3.1338561, -1.6168667, -0.4906146,
		-0.9787684, 1.9161415, 0.0334540,
		0.0719453, -0.2289914, 1.4052427,
	}
)

func mul(m *f64.Mat3, v f64.Vec3) f64.Vec3 {
	return f64.Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Convert converts a colour from model `from` to model `to`, using the fast
// device formulas.  Lab values are in the natural ranges L ∈ [0, 100] and
// a, b ∈ [-128, 127]; all other values are in [0, 1].
//
// The slices src and dst must have the lengths given by the
// respective Channels methods.  Conversions between RGB and CMYK do not go
// through Lab.
func Convert(from, to Model, dst, src []float64) {
	if from == to {
		copy(dst, src)
		return
	}

	switch {
	case from == Gray && to == CMYK:
		dst[0], dst[1], dst[2] = 0, 0, 0
		dst[3] = clamp01(1 - src[0])
		return
	case from == CMYK && to == Gray:
		dst[0] = CMYKToGray(src[0], src[1], src[2], src[3])
		return
	case from == Lab:
		L, A, B := src[0], src[1], src[2]
		r, g, b := LabToRGB(L, A, B)
		fromRGB(to, dst, r, g, b)
		return
	}

	var r, g, b float64
	switch from {
	case Gray:
		r, g, b = src[0], src[0], src[0]
	case RGB:
		r, g, b = src[0], src[1], src[2]
	case BGR:
		r, g, b = src[2], src[1], src[0]
	case CMYK:
		r, g, b = CMYKToRGB(src[0], src[1], src[2], src[3])
	}
	fromRGB(to, dst, r, g, b)
}

func fromRGB(to Model, dst []float64, r, g, b float64) {
	switch to {
	case Gray:
		dst[0] = RGBToGray(r, g, b)
	case RGB:
		dst[0], dst[1], dst[2] = r, g, b
	case BGR:
		dst[0], dst[1], dst[2] = b, g, r
	case CMYK:
		dst[0], dst[1], dst[2], dst[3] = RGBToCMYK(r, g, b)
	case Lab:
		dst[0], dst[1], dst[2] = RGBToLab(r, g, b)
	}
}

// RGBToGray returns the luminance of an RGB colour.
func RGBToGray(r, g, b float64) float64 {
	return clamp01(0.3*r + 0.59*g + 0.11*b)
}

// CMYKToGray converts a CMYK colour to gray, by adding the weighted colour
// inks to the black ink.
func CMYKToGray(c, m, y, k float64) float64 {
	return 1 - clamp01(0.3*c+0.59*m+0.11*y+k)
}

// CMYKToRGB converts a CMYK colour to RGB by naive under-colour addition.
func CMYKToRGB(c, m, y, k float64) (r, g, b float64) {
	r = 1 - clamp01(c+k)
	g = 1 - clamp01(m+k)
	b = 1 - clamp01(y+k)
	return r, g, b
}

// RGBToCMYK converts an RGB colour to CMYK, using full black generation.
func RGBToCMYK(r, g, b float64) (c, m, y, k float64) {
	c = clamp01(1 - r)
	m = clamp01(1 - g)
	y = clamp01(1 - b)
	k = min(c, m, y)
	return c - k, m - k, y - k, k
}

// RGBToLab converts an sRGB colour to CIE L*a*b* relative to D50.
func RGBToLab(r, g, b float64) (L, A, B float64) {
	lin := f64.Vec3{toLinear(r), toLinear(g), toLinear(b)}
	return XYZToLab(mul(&srgbToXYZ, lin))
}

// LabToRGB converts a CIE L*a*b* colour relative to D50 to sRGB.
// Out-of-gamut colours are clamped.
func LabToRGB(L, A, B float64) (r, g, b float64) {
	lin := mul(&xyzToSRGB, LabToXYZ(L, A, B))
	return fromLinear(lin[0]), fromLinear(lin[1]), fromLinear(lin[2])
}

// XYZToLab converts CIE XYZ values to L*a*b*, relative to D50.
func XYZToLab(xyz f64.Vec3) (L, A, B float64) {
	fx := labF(xyz[0] / D50[0])
	fy := labF(xyz[1] / D50[1])
	fz := labF(xyz[2] / D50[2])
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

// LabToXYZ converts L*a*b* values relative to D50 to CIE XYZ.
func LabToXYZ(L, A, B float64) f64.Vec3 {
	fy := (L + 16) / 116
	fx := A/500 + fy
	fz := fy - B/200
	return f64.Vec3{
		labFInv(fx) * D50[0],
		labFInv(fy) * D50[1],
		labFInv(fz) * D50[2],
	}
}

func toLinear(v float64) float64 {
	v = clamp01(v)
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func fromLinear(v float64) float64 {
	v = clamp01(v)
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
