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
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/icc"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/function"
	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/separation"
)

type failingEngine struct {
	kind  pdfcolor.Kind
	calls int
}

func (e *failingEngine) BuildTransform(req *cmm.Request) (cmm.Transform, error) {
	e.calls++
	return nil, pdfcolor.Errorf(e.kind, "BuildTransform", "no transform available")
}

var spotRed = &function.Type2{
	XMin: 0, XMax: 1,
	C0: []float64{0, 0, 0, 0},
	C1: []float64{0, 1, 1, 0},
	N:  1,
}

func TestSteps(t *testing.T) {
	sep := must(color.Separation("Red", color.DeviceCMYK, spotRed))
	idxSep := must(color.Indexed(sep, 1, []byte{0, 255}))
	sepIdxSep := must(color.Separation("Outer", idxSep, &function.Type2{
		XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1,
	}))

	cases := []struct {
		ss, ds color.Space
		want   []string
	}{
		{color.DeviceRGB, color.DeviceRGB, []string{StepIdentity}},
		{color.DeviceGray, color.DeviceCMYK, []string{StepKOnly}},
		{color.DeviceRGB, color.DeviceCMYK, []string{StepLink}},
		{color.SRGB(), color.SRGB(), []string{StepIdentity}},
		{must(color.Indexed(color.DeviceRGB, 0, []byte{1, 2, 3})), color.DeviceGray,
			[]string{StepIndexed, StepLink}},
		{sep, color.DeviceCMYK, []string{StepSeparation, StepIdentity}},
		{idxSep, color.DeviceRGB, []string{StepIndexed, StepSeparation, StepLink}},
		{sepIdxSep, color.DeviceCMYK,
			[]string{StepSeparation, StepIndexed, StepSeparation, StepIdentity}},
	}

	ctx := NewContext(nil)
	for _, c := range cases {
		cv, err := ctx.NewConverter(c.ss, c.ds, nil, nil, Params{})
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(c.want, cv.Steps()); d != "" {
			t.Errorf("%s -> %s (-want +got):\n%s", c.ss.Name(), c.ds.Name(), d)
		}
		cv.Close()
	}
}

func TestSeparationChain(t *testing.T) {
	sep := must(color.Separation("Red", color.DeviceCMYK, spotRed))
	idxSep := must(color.Indexed(sep, 1, []byte{0, 255}))
	outer := must(color.Separation("Outer", idxSep, &function.Type2{
		XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1,
	}))

	ctx := NewContext(nil)
	out, err := ctx.ConvertColor(outer, color.DeviceCMYK, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{0, 1, 1, 0}, out); d != "" {
		t.Errorf("full tint (-want +got):\n%s", d)
	}
	out, _ = ctx.ConvertColor(outer, color.DeviceCMYK, []float64{0})
	if d := cmp.Diff([]float64{0, 0, 0, 0}, out); d != "" {
		t.Errorf("zero tint (-want +got):\n%s", d)
	}
}

func TestCalculatorTint(t *testing.T) {
	tint := must(function.NewType4([]float64{0, 1}, []float64{0, 1, 0, 1, 0, 1, 0, 1},
		"{ dup 0.5 mul 0 0 }"))
	sep := must(color.Separation("Teal", color.DeviceCMYK, tint))
	inks := must(function.NewType4([]float64{0, 1, 0, 1}, []float64{0, 1, 0, 1, 0, 1, 0, 1},
		"{ 0 0 4 2 roll }"))
	devN := must(color.DeviceN([]string{"Ink A", "Ink B"}, color.DeviceCMYK, inks))
	idxSep := must(color.Indexed(sep, 1, []byte{0, 255}))

	cases := []struct {
		ss    color.Space
		in    []float64
		want  []float64
		steps []string
	}{
		{sep, []float64{0.6}, []float64{0.6, 0.3, 0, 0}, []string{StepSeparation, StepIdentity}},
		{sep, []float64{2}, []float64{1, 0.5, 0, 0}, []string{StepSeparation, StepIdentity}},
		{devN, []float64{0.2, 0.7}, []float64{0, 0, 0.2, 0.7}, []string{StepSeparation, StepIdentity}},
		{idxSep, []float64{1.0 / 255}, []float64{1, 0.5, 0, 0}, []string{StepIndexed, StepSeparation, StepIdentity}},
	}

	ctx := NewContext(nil)
	for _, c := range cases {
		cv, err := ctx.NewConverter(c.ss, color.DeviceCMYK, nil, nil, Params{})
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(c.steps, cv.Steps()); d != "" {
			t.Errorf("%s steps (-want +got):\n%s", c.ss.Name(), d)
		}
		cv.Close()

		out, err := ctx.ConvertColor(c.ss, color.DeviceCMYK, c.in)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(c.want, out, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("%s %v (-want +got):\n%s", c.ss.Name(), c.in, d)
		}
	}
}

func TestKOnly(t *testing.T) {
	ctx := NewContext(nil)
	out, err := ctx.ConvertColor(color.DeviceGray, color.DeviceCMYK, []float64{0.25})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{0, 0, 0, 0.75}, out); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func TestIndexedEquivalence(t *testing.T) {
	table := []byte{
		255, 0, 0,
		0, 128, 255,
		17, 34, 51,
		255, 255, 255,
	}
	idx := must(color.Indexed(color.DeviceRGB, 3, table))
	ctx := NewContext(nil)

	cvIdx := must(ctx.NewConverter(idx, color.DeviceCMYK, nil, nil, Params{}))
	defer cvIdx.Close()
	cvRGB := must(ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil, Params{}))
	defer cvRGB.Close()

	for i := 0; i <= idx.High; i++ {
		a := make([]float64, 4)
		b := make([]float64, 4)
		cvIdx.Convert(a, []float64{float64(i) / 255})
		rgb := table[3*i : 3*i+3]
		cvRGB.Convert(b, []float64{float64(rgb[0]) / 255, float64(rgb[1]) / 255, float64(rgb[2]) / 255})
		if d := cmp.Diff(b, a); d != "" {
			t.Errorf("index %d (-direct +indexed):\n%s", i, d)
		}
	}
}

func TestLinkSharing(t *testing.T) {
	ctx := NewContext(nil)
	cv1 := must(ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil, Params{}))
	cv2 := must(ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil, Params{}))
	if ctx.Cache().Len() != 1 {
		t.Errorf("cache has %d entries, want 1", ctx.Cache().Len())
	}
	if cv1.link != cv2.link || cv1.link.Refs() != 3 {
		t.Error("converters do not share the cached link")
	}
	cv1.Close()
	cv2.Close()
	if ctx.Cache().Stats().Hits != 1 {
		t.Error("second converter missed the cache")
	}

	cv3 := must(ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil,
		Params{Intent: cmm.Saturation}))
	defer cv3.Close()
	if ctx.Cache().Len() != 2 {
		t.Error("rendering intent not part of the cache key")
	}
}

func TestFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	engine := &failingEngine{kind: pdfcolor.LibraryError}
	ctx := NewContext(&Options{
		Engine: engine,
		Logger: slog.New(slog.NewTextHandler(buf, nil)),
	})

	cv, err := ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil, Params{})
	if err != nil {
		t.Fatal(err)
	}
	defer cv.Close()
	if !cv.Approximate() {
		t.Error("converter does not report the fallback")
	}
	if d := cmp.Diff([]string{StepApproximate}, cv.Steps()); d != "" {
		t.Errorf("unexpected steps (-want +got):\n%s", d)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("fallback not logged: %q", buf.String())
	}

	out := make([]float64, 4)
	cv.Convert(out, []float64{1, 1, 1})
	if d := cmp.Diff([]float64{0, 0, 0, 0}, out, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("white (-want +got):\n%s", d)
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times", engine.calls)
	}
}

func TestFatalEngineError(t *testing.T) {
	ctx := NewContext(&Options{Engine: &failingEngine{kind: pdfcolor.FormatError}})
	_, err := ctx.NewConverter(color.DeviceRGB, color.DeviceCMYK, nil, nil, Params{})
	if !errors.Is(err, pdfcolor.ErrFormat) {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestInvalidDestination(t *testing.T) {
	ctx := NewContext(nil)
	idx := must(color.Indexed(color.DeviceRGB, 0, []byte{1, 2, 3}))
	sep := must(color.Separation("Red", color.DeviceCMYK, spotRed))
	for _, ds := range []color.Space{nil, idx, sep} {
		_, err := ctx.NewConverter(color.DeviceRGB, ds, nil, nil, Params{})
		if !errors.Is(err, pdfcolor.ErrInvalidArgument) {
			t.Errorf("destination %v: expected InvalidArgument, got %v", ds, err)
		}
	}
	_, err := ctx.NewConverter(color.DeviceRGB, color.DeviceRGB, sep, nil, Params{})
	if !errors.Is(err, pdfcolor.ErrInvalidArgument) {
		t.Errorf("proofing space: expected InvalidArgument, got %v", err)
	}
}

func TestSoftMask(t *testing.T) {
	ctx := NewContext(nil)
	cv := must(ctx.NewConverter(color.SRGB(), color.DeviceRGB, nil, nil, Params{SoftMask: true}))
	defer cv.Close()
	if d := cmp.Diff([]string{StepIdentity}, cv.Steps()); d != "" {
		t.Errorf("unexpected steps (-want +got):\n%s", d)
	}
}

func TestDefaults(t *testing.T) {
	ctx := NewContext(nil)
	defs := color.SRGBDefaults()
	cv := must(ctx.NewConverter(color.DeviceRGB, color.SRGB(), nil, defs, Params{}))
	defer cv.Close()
	if d := cmp.Diff([]string{StepIdentity}, cv.Steps()); d != "" {
		t.Errorf("DeviceRGB not resolved (-want +got):\n%s", d)
	}
}

func TestEquivalentColor(t *testing.T) {
	ctx := NewContext(nil)
	seps := separation.New()
	gold, err := seps.Add("Gold", separation.ProcessEquivalent(
		[3]float64{1, 0.8, 0}, [4]float64{0, 0.2, 1, 0}))
	if err != nil {
		t.Fatal(err)
	}
	red, err := seps.Add("Red", separation.ColorantEquivalent(
		must(color.Separation("Red", color.DeviceCMYK, spotRed)), 0))
	if err != nil {
		t.Fatal(err)
	}

	got, err := ctx.EquivalentColor(seps, gold, color.DeviceCMYK)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{0, 0.2, 1, 0}, got); d != "" {
		t.Errorf("gold (-want +got):\n%s", d)
	}
	got, _ = ctx.EquivalentColor(seps, red, color.DeviceCMYK)
	if d := cmp.Diff([]float64{0, 1, 1, 0}, got); d != "" {
		t.Errorf("red (-want +got):\n%s", d)
	}

	seps.SetEquivalent(gold, separation.ProcessEquivalent(
		[3]float64{1, 1, 0}, [4]float64{0, 0, 1, 0}))
	got, _ = ctx.EquivalentColor(seps, gold, color.DeviceCMYK)
	if d := cmp.Diff([]float64{0, 0, 1, 0}, got); d != "" {
		t.Errorf("stale equivalent after change (-want +got):\n%s", d)
	}
	if len(ctx.equiv) != 1 {
		t.Errorf("%d cache entries, stale entries not removed", len(ctx.equiv))
	}

	if _, err := ctx.EquivalentColor(seps, 2, color.DeviceCMYK); !errors.Is(err, pdfcolor.ErrOutOfRange) {
		t.Errorf("expected OutOfRange, got %v", err)
	}
}

func TestICCChannelOrder(t *testing.T) {
	rgb := must(color.ICCBased(icc.SRGBv2Profile, color.KindRGB))
	bgr := must(color.ICCBased(icc.SRGBv2Profile, color.KindBGR))
	ctx := NewContext(nil)

	cv := must(ctx.NewConverter(rgb, bgr, nil, nil, Params{}))
	defer cv.Close()
	if d := cmp.Diff([]string{StepLink}, cv.Steps()); d != "" {
		t.Errorf("unexpected steps (-want +got):\n%s", d)
	}
	out := make([]float64, 3)
	cv.Convert(out, []float64{1, 0, 0})
	if d := cmp.Diff([]float64{0, 0, 1}, out, cmpopts.EquateApprox(0, 0.01)); d != "" {
		t.Errorf("red (-want +got):\n%s", d)
	}

	same := must(ctx.NewConverter(bgr, must(color.ICCBased(icc.SRGBv2Profile, color.KindBGR)),
		nil, nil, Params{}))
	defer same.Close()
	if d := cmp.Diff([]string{StepIdentity}, same.Steps()); d != "" {
		t.Errorf("unexpected steps (-want +got):\n%s", d)
	}
}

func TestEquivalentColorSettings(t *testing.T) {
	ctx := NewContext(nil)
	seps := separation.New()
	red, err := seps.Add("Signal Red", separation.ProcessEquivalent(
		[3]float64{1, 0, 0}, [4]float64{0, 1, 1, 0}))
	if err != nil {
		t.Fatal(err)
	}

	defs := color.NewDefaults()
	if err := defs.SetOutputIntent(color.DeviceGray); err != nil {
		t.Fatal(err)
	}
	proofed, err := ctx.EquivalentColorFor(seps, red, color.SRGB(), nil, defs,
		Params{Intent: cmm.RelativeColorimetric})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(proofed[0]-proofed[1]) > 0.02 || math.Abs(proofed[1]-proofed[2]) > 0.02 {
		t.Errorf("proofing through gray must give a gray result, got %v", proofed)
	}

	plain, err := ctx.EquivalentColor(seps, red, color.SRGB())
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{1, 0, 0}, plain, cmpopts.EquateApprox(0, 0.01)); d != "" {
		t.Errorf("settings not part of the cache key (-want +got):\n%s", d)
	}
	if len(ctx.equiv) != 2 {
		t.Errorf("expected 2 cache entries, got %d", len(ctx.equiv))
	}
}

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}
