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

package cmm

import (
	"sync"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/internal/colconv"
)

var (
	srgbOnce    sync.Once
	srgbProfile *Profile
)

// RenderingIntent specifies the rendering intent for colour conversion.
type RenderingIntent uint8

// These are the rendering intents defined by the ICC specification.
const (
	Perceptual RenderingIntent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

func (ri RenderingIntent) String() string {
	switch ri {
	case Perceptual:
		return "perceptual"
	case RelativeColorimetric:
		return "relative colorimetric"
	case Saturation:
		return "saturation"
	case AbsoluteColorimetric:
		return "absolute colorimetric"
	default:
		return "invalid intent"
	}
}

// Format describes the pixel layout a transform is built for.
type Format uint32

// Format flags.
const (
	// FormatPremultiplied indicates that colour samples are premultiplied by
	// alpha.
	FormatPremultiplied Format = 1 << iota

	// FormatAlpha indicates that pixels carry an alpha channel.
	FormatAlpha

	// FormatFloat indicates that the transform is used for single colours
	// rather than for pixel data.
	FormatFloat
)

// Request collects the parameters for building a transform.
type Request struct {
	Src, Dst  *Profile
	Proof     *Profile // optional
	SrcExtras int
	DstExtras int

	Intent     RenderingIntent
	BlackPoint bool
	Format     Format
	CopySpots  bool
}

// Transform converts process colour values.  Gray, RGB and CMYK values are
// in the range [0, 1], Lab values use the ranges L ∈ [0, 100] and
// a, b ∈ [-128, 127].
type Transform interface {
	Apply(dst, src []float64)
}

// ErrorReporter is implemented by transforms which can fail while
// converting colours.  Err returns the first error encountered by Apply,
// or nil.  Results computed after a failure are undefined.
type ErrorReporter interface {
	Err() error
}

// TransformFunc adapts a function to the [Transform] interface.
type TransformFunc func(dst, src []float64)

// Apply calls f(dst, src).
func (f TransformFunc) Apply(dst, src []float64) {
	f(dst, src)
}

// Engine builds transforms between profiles.
//
// Implementations must be safe for concurrent use.  Errors returned from
// BuildTransform should be of kind [pdfcolor.LibraryError] or
// [pdfcolor.Unsupported]; callers recover from these by falling back to an
// approximate conversion.
type Engine interface {
	BuildTransform(req *Request) (Transform, error)
}

// Approximate is the built-in engine.  It converts colours through the
// profile connection space CIE L*a*b* (D50), using closed-form formulas for
// the device side of every profile.  Rendering intent and black point
// compensation are ignored.
var Approximate Engine = approximate{}

type approximate struct{}

func (approximate) BuildTransform(req *Request) (Transform, error) {
	if req.Src == nil || req.Dst == nil {
		return nil, pdfcolor.Errorf(pdfcolor.LibraryError, "BuildTransform",
			"source and destination profiles required")
	}
	if req.Intent > AbsoluteColorimetric {
		return nil, pdfcolor.Errorf(pdfcolor.Unsupported, "BuildTransform",
			"rendering intent %d", req.Intent)
	}

	from := req.Src.Model()
	to := req.Dst.Model()
	if from.Channels() == 0 || to.Channels() == 0 {
		return nil, pdfcolor.Errorf(pdfcolor.LibraryError, "BuildTransform",
			"invalid colour model")
	}

	var proof Model
	if req.Proof != nil {
		proof = req.Proof.Model()
		if proof.Channels() == 0 {
			return nil, pdfcolor.Errorf(pdfcolor.LibraryError, "BuildTransform",
				"invalid proofing model")
		}
	}

	t := func(dst, src []float64) {
		var lab [3]float64
		toLab(from, lab[:], src)
		if proof != 0 {
			// Simulate the proofing device by a round trip through its
			// colour model.
			var tmp [4]float64
			fromLab(proof, tmp[:proof.Channels()], lab[:])
			toLab(proof, lab[:], tmp[:proof.Channels()])
		}
		fromLab(to, dst, lab[:])
	}
	return TransformFunc(t), nil
}

func toLab(m Model, lab, src []float64) {
	if m == colconv.Lab {
		copy(lab, src[:3])
		return
	}
	colconv.Convert(m, colconv.Lab, lab, src)
}

func fromLab(m Model, dst, lab []float64) {
	if m == colconv.Lab {
		copy(dst, lab)
		return
	}
	colconv.Convert(colconv.Lab, m, dst, lab)
}
