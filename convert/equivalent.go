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
	"golang.org/x/exp/slices"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/separation"
)

type equivKey struct {
	seps uint64
	gen  uint64
	ink  int
	dst  cmm.Digest
	kind color.Kind

	// rendering settings
	proof      cmm.Digest
	slots      [3]cmm.Digest
	intent     cmm.RenderingIntent
	blackPoint bool
	softMask   bool
	approx     bool
}

// EquivalentColor returns the colour in the process space ds which
// represents full coverage of ink i of seps.  The colour is computed
// with the relative colorimetric intent, without defaults and without
// proofing.  Use [Context.EquivalentColorFor] to choose these settings.
//
// Results are cached until the separations change.  The returned slice
// must not be modified.
func (c *Context) EquivalentColor(seps *separation.Separations, i int, ds color.Space) ([]float64, error) {
	return c.EquivalentColorFor(seps, i, ds, nil, nil, Params{Intent: cmm.RelativeColorimetric})
}

// EquivalentColorFor is like [Context.EquivalentColor], but converts the
// equivalent colour with the same proofing space, defaults and rendering
// parameters as [Context.NewConverter].  The pixel layout fields of params
// are ignored.
func (c *Context) EquivalentColorFor(seps *separation.Separations, i int, ds, prf color.Space, defs *color.Defaults, params Params) ([]float64, error) {
	if i < 0 || i >= seps.Len() {
		return nil, pdfcolor.Errorf(pdfcolor.OutOfRange, "EquivalentColor",
			"ink %d out of range", i)
	}
	if ds == nil || !color.IsProcess(ds) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "EquivalentColor",
			"invalid destination space %s", nameOf(ds))
	}
	if prf == nil && defs != nil {
		prf = defs.OutputIntent()
	}
	if prf != nil && !color.IsProcess(prf) {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "EquivalentColor",
			"invalid proofing space %s", prf.Name())
	}
	params = Params{
		Intent:      params.Intent,
		BlackPoint:  params.BlackPoint,
		SoftMask:    params.SoftMask,
		Approximate: params.Approximate,
	}

	key := equivKey{
		seps:       seps.ID(),
		gen:        seps.Generation(),
		ink:        i,
		dst:        color.Digest(ds),
		kind:       ds.Kind(),
		intent:     params.Intent,
		blackPoint: params.BlackPoint,
		softMask:   params.SoftMask,
		approx:     params.Approximate,
	}
	if prf != nil {
		key.proof = color.Digest(prf)
	}
	for k, dev := range []color.Space{color.DeviceGray, color.DeviceRGB, color.DeviceCMYK} {
		key.slots[k] = color.Digest(defs.Resolve(dev))
	}

	c.mu.Lock()
	res, ok := c.equiv[key]
	c.mu.Unlock()
	if ok {
		return res, nil
	}

	eq := seps.Equivalent(i)
	var ss color.Space
	var in []float64
	switch {
	case eq.Space != nil:
		ss = eq.Space
		in = make([]float64, ss.Channels())
		in[eq.Index] = 1
	case color.IsSubtractive(ds):
		ss = color.DeviceCMYK
		in = eq.CMYK[:]
	default:
		ss = color.DeviceRGB
		in = eq.RGB[:]
	}

	cv, err := c.NewConverter(ss, ds, prf, defs, params)
	if err != nil {
		return nil, err
	}
	clamped := make([]float64, ss.Channels())
	color.Clamp(ss, in, clamped)
	res = make([]float64, ds.Channels())
	cv.Convert(res, clamped)
	cv.Close()

	c.mu.Lock()
	for k := range c.equiv {
		// entries for older generations can never be used again
		if k.seps == key.seps && k.gen != key.gen {
			delete(c.equiv, k)
		}
	}
	c.equiv[key] = slices.Clone(res)
	c.mu.Unlock()
	return res, nil
}
