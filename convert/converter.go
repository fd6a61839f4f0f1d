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

package convert

import (
	"math"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/internal/colconv"
	"seehuhn.de/go/pdfcolor/link"
)

// Params are the rendering parameters of a conversion.
type Params struct {
	Intent     cmm.RenderingIntent
	BlackPoint bool

	// SoftMask is set while rendering soft masks.  Both spaces are then
	// replaced by their device equivalents.
	SoftMask bool

	// Approximate forces the use of the built-in approximate conversion.
	Approximate bool

	// The following fields describe the pixel layout for bulk conversions.
	// They become part of the transform cache key.
	Format    cmm.Format
	SrcExtras int
	DstExtras int
	CopySpots bool
}

// Names of the conversion steps reported by [Converter.Steps].
const (
	StepIndexed     = "indexed"
	StepSeparation  = "separation"
	StepIdentity    = "identity"
	StepKOnly       = "k-only"
	StepLink        = "link"
	StepApproximate = "approximate"
)

// Converter converts single colours from one colour space to another.
//
// A Converter holds a reference to a cached transform.  Call
// [Converter.Close] to release it.  A Converter must not be used
// concurrently.
type Converter struct {
	src, dst color.Space

	fn     func(dst, src []float64)
	steps  []string
	approx bool
	link   *link.Link
}

// NewConverter returns a converter from ss to ds.
//
// The destination must be a process colour space.  The proofing space prf
// is optional; if it is nil, the output intent of defs is used.  Device
// spaces are replaced according to defs, which may be nil.
//
// Failures of the colour management engine are not reported: the converter
// silently falls back to an approximate conversion in this case, see
// [Converter.Approximate].
func (c *Context) NewConverter(ss, ds, prf color.Space, defs *color.Defaults, params Params) (*Converter, error) {
	if ss == nil {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "NewConverter", "missing source space")
	}
	if ds == nil || !color.IsProcess(ds) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "NewConverter",
			"invalid destination space %s", nameOf(ds))
	}
	if prf == nil && defs != nil {
		prf = defs.OutputIntent()
	}
	if prf != nil && !color.IsProcess(prf) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "NewConverter",
			"invalid proofing space %s", prf.Name())
	}

	cv := &Converter{src: ss, dst: ds}
	fn, err := c.via(cv, ss, ds, prf, defs, &params)
	if err != nil {
		cv.Close()
		return nil, err
	}
	cv.fn = fn
	return cv, nil
}

// via builds the conversion function from ss to ds, resolving Indexed
// and Separation spaces by chaining through their base spaces.
func (c *Context) via(cv *Converter, ss, ds, prf color.Space, defs *color.Defaults, params *Params) (func(dst, src []float64), error) {
	switch s := ss.(type) {
	case *color.SpaceIndexed:
		cv.steps = append(cv.steps, StepIndexed)
		base, err := c.via(cv, s.Base, ds, prf, defs, params)
		if err != nil {
			return nil, err
		}
		n := s.Base.Channels()
		return func(dst, src []float64) {
			var tmp [color.MaxChannels]float64
			s.Lookup(int(math.Round(src[0]*255)), tmp[:n])
			base(dst, tmp[:n])
		}, nil

	case *color.SpaceSeparation:
		cv.steps = append(cv.steps, StepSeparation)
		base, err := c.via(cv, s.Base, ds, prf, defs, params)
		if err != nil {
			return nil, err
		}
		n := s.Channels()
		m := s.Base.Channels()
		_, indexedBase := s.Base.(*color.SpaceIndexed)
		return func(dst, src []float64) {
			out := s.Tint.Apply(src[:n]...)
			var tmp [color.MaxChannels]float64
			copy(tmp[:m], out)
			if indexedBase {
				// tint transforms produce palette indices
				tmp[0] /= 255
			}
			color.Clamp(s.Base, tmp[:m], tmp[:m])
			base(dst, tmp[:m])
		}, nil

	default:
		return c.process(cv, ss, ds, prf, defs, params)
	}
}

// process builds the conversion function between two process spaces.
func (c *Context) process(cv *Converter, ss, ds, prf color.Space, defs *color.Defaults, params *Params) (func(dst, src []float64), error) {
	ss = defs.Resolve(ss)
	ds = defs.Resolve(ds)
	if params.SoftMask {
		ss = color.DeviceEquivalent(ss)
		ds = color.DeviceEquivalent(ds)
		prf = nil
	}

	sp := color.ProfileOf(ss)
	dp := color.ProfileOf(ds)
	if sp == nil || dp == nil {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "NewConverter",
			"cannot convert from %s to %s", nameOf(ss), nameOf(ds))
	}
	n := ss.Channels()

	switch {
	case sp.Digest() == dp.Digest() && sp.Model() == dp.Model():
		cv.steps = append(cv.steps, StepIdentity)
		return func(dst, src []float64) {
			copy(dst, src[:n])
		}, nil

	case ss == color.DeviceGray && ds == color.DeviceCMYK:
		cv.steps = append(cv.steps, StepKOnly)
		return kOnly, nil
	}

	if !params.Approximate {
		l, err := c.findLink(sp, dp, prf, params)
		if err == nil {
			cv.steps = append(cv.steps, StepLink)
			cv.link = l
			return l.Apply, nil
		}
		if !pdfcolor.IsRecoverable(err) {
			return nil, err
		}
		c.logger.Warn("colour transform unavailable, using approximation",
			"src", ss.Name(), "dst", ds.Name(), "err", err)
	}

	cv.steps = append(cv.steps, StepApproximate)
	cv.approx = true
	return approximate(sp.Model(), dp.Model()), nil
}

// findLink returns a transform between two profiles from the cache,
// building it if needed.
func (c *Context) findLink(sp, dp *cmm.Profile, prf color.Space, params *Params) (*link.Link, error) {
	req := &cmm.Request{
		Src:        sp,
		Dst:        dp,
		SrcExtras:  params.SrcExtras,
		DstExtras:  params.DstExtras,
		Intent:     params.Intent,
		BlackPoint: params.BlackPoint,
		Format:     params.Format,
		CopySpots:  params.CopySpots,
	}
	key := link.Key{
		Src:        sp.Digest(),
		Dst:        dp.Digest(),
		Intent:     params.Intent,
		BlackPoint: params.BlackPoint,
		SrcExtras:  params.SrcExtras,
		DstExtras:  params.DstExtras,
		CopySpots:  params.CopySpots,
		Format:     params.Format,
		BGR:        dp.Model() == cmm.ModelBGR,
	}
	if prf != nil {
		req.Proof = color.ProfileOf(prf)
		key.Proof = req.Proof.Digest()
	}

	return c.cache.FindOrBuild(key, func() (*link.Link, error) {
		t, err := c.engine.BuildTransform(req)
		if err != nil {
			return nil, err
		}
		weight := int64(len(sp.Data()) + len(dp.Data()) + 1024)
		return link.New(key, t, weight), nil
	})
}

// kOnly maps gray to black ink only.
func kOnly(dst, src []float64) {
	dst[0], dst[1], dst[2] = 0, 0, 0
	dst[3] = 1 - src[0]
}

func approximate(from, to cmm.Model) func(dst, src []float64) {
	n := from.Channels()
	return func(dst, src []float64) {
		colconv.Convert(from, to, dst, src[:n])
	}
}

// Convert converts a single colour.  The length of src must be at least
// the number of channels of the source space, the length of dst at least
// the number of channels of the destination space.
func (cv *Converter) Convert(dst, src []float64) {
	cv.fn(dst, src)
}

// Src returns the source space of the converter.
func (cv *Converter) Src() color.Space { return cv.src }

// Dst returns the destination space of the converter.
func (cv *Converter) Dst() color.Space { return cv.dst }

// Steps returns the names of the conversion steps, outermost first.
func (cv *Converter) Steps() []string {
	return append([]string(nil), cv.steps...)
}

// Approximate reports whether the converter uses the built-in approximate
// conversion in place of a profile-based transform.
func (cv *Converter) Approximate() bool {
	return cv.approx
}

// Err returns the first error reported by the profile-based transform
// while converting colours.  Results computed after such an error are
// unreliable and should be recomputed with [Params.Approximate] set.
func (cv *Converter) Err() error {
	if cv.link == nil {
		return nil
	}
	if err := cv.link.Err(); err != nil {
		return pdfcolor.Wrap(pdfcolor.LibraryError, "Convert", err)
	}
	return nil
}

// Close releases the resources held by the converter.
func (cv *Converter) Close() {
	if cv.link != nil {
		cv.link.Release()
		cv.link = nil
	}
}

// ConvertColor converts a single colour from ss to ds.
func (c *Context) ConvertColor(ss, ds color.Space, in []float64) ([]float64, error) {
	cv, err := c.NewConverter(ss, ds, nil, nil, Params{Intent: cmm.RelativeColorimetric})
	if err != nil {
		return nil, err
	}
	defer cv.Close()

	if len(in) < ss.Channels() {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "ConvertColor",
			"expected %d values, got %d", ss.Channels(), len(in))
	}
	clamped := make([]float64, ss.Channels())
	color.Clamp(ss, in, clamped)
	out := make([]float64, ds.Channels())
	cv.Convert(out, clamped)
	return out, nil
}

func nameOf(s color.Space) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}
