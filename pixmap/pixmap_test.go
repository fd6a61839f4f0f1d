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

package pixmap

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/icc"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/convert"
	"seehuhn.de/go/pdfcolor/function"
	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/internal/colconv"
	"seehuhn.de/go/pdfcolor/separation"
)

// fill sets all samples of p to pseudo-random values.  Colour samples are
// chosen from a small set, so that flat regions occur, and respect the
// premultiplied alpha.
func fill(p *Pixmap, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, 1))
	levels := []byte{0, 17, 128, 200, 255}
	n := p.N()
	for y := range p.Height {
		row := p.Row(y)
		for x := 0; x < len(row); x += n {
			px := row[x : x+n]
			a := byte(255)
			if p.Alpha {
				a = levels[rng.IntN(len(levels))]
				px[n-1] = a
				px = px[:n-1]
			}
			var v byte
			if rng.IntN(4) > 0 || x == 0 {
				v = levels[rng.IntN(len(levels))]
			}
			for i := range px {
				if rng.IntN(3) == 0 {
					v = levels[rng.IntN(len(levels))]
				}
				px[i] = mul255(v, a)
			}
		}
	}
}

func mustNew(t *testing.T, space color.Space, w, h int, seps *separation.Separations, alpha bool) *Pixmap {
	t.Helper()
	p, err := New(space, w, h, seps, alpha)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func twoInks(t *testing.T, names ...string) *separation.Separations {
	t.Helper()
	seps := separation.New()
	for _, name := range names {
		_, err := seps.Add(name, separation.ProcessEquivalent(
			[3]float64{1, 0.8, 0}, [4]float64{0, 0.2, 1, 0}))
		if err != nil {
			t.Fatal(err)
		}
	}
	return seps
}

func TestIdentity(t *testing.T) {
	spaces := []color.Space{
		color.DeviceGray,
		color.DeviceRGB,
		color.DeviceCMYK,
		color.LabD50,
		color.SRGB(),
	}
	env := convert.NewContext(nil)
	for _, space := range spaces {
		for _, alpha := range []bool{false, true} {
			seps := twoInks(t, "Gold", "Silver")
			src := mustNew(t, space, 40, 30, seps, alpha)
			fill(src, 1)
			dst := mustNew(t, space, 40, 30, seps, alpha)

			err := Convert(context.Background(), env, dst, src, &ConvertOptions{CopySpots: true})
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(src.Samples, dst.Samples) {
				t.Errorf("%s, alpha=%t: identity conversion changed the samples",
					space.Name(), alpha)
			}
		}
	}
}

func TestAlphaRoundTrip(t *testing.T) {
	for a := 1; a < 256; a++ {
		for c := 0; c <= a; c++ {
			straight := unpremul(byte(c), byte(a))
			back := mul255(straight, byte(a))
			if d := int(back) - c; d < -1 || d > 1 {
				t.Fatalf("c=%d, a=%d: round trip gives %d", c, a, back)
			}
		}
	}

	p := mustNew(t, color.DeviceRGB, 20, 20, nil, true)
	fill(p, 2)
	orig := bytes.Clone(p.Samples)
	if err := p.Unpremultiply(); err != nil {
		t.Fatal(err)
	}
	if err := p.Premultiply(); err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(orig); i += 4 {
		if p.Samples[i] != orig[i] {
			t.Fatal("alpha channel changed")
		}
	}
	for i := range orig {
		if d := int(p.Samples[i]) - int(orig[i]); d < -1 || d > 1 {
			t.Fatalf("sample %d: %d -> %d", i, orig[i], p.Samples[i])
		}
	}
}

func TestStrategyIndependence(t *testing.T) {
	type testCase struct {
		src, dst color.Space
		w, h     int
		alpha    bool
		auto     strategy
	}
	idx := must(color.Indexed(color.DeviceRGB, 255, bytes.Repeat([]byte{10, 200, 30}, 256)))
	cases := []testCase{
		{color.DeviceGray, color.DeviceRGB, 15, 15, false, strategySmall},
		{color.DeviceGray, color.DeviceRGB, 1000, 1, false, strategyLUT},
		{color.DeviceGray, color.DeviceRGB, 1000, 1, true, strategyLUT},
		{color.DeviceRGB, color.DeviceCMYK, 15, 15, true, strategySmall},
		{color.DeviceRGB, color.DeviceCMYK, 1000, 1, false, strategyMemo},
		{color.DeviceRGB, color.DeviceCMYK, 1000, 1, true, strategyMemo},
		{color.DeviceCMYK, color.LabD50, 50, 40, true, strategyMemo},
		{idx, color.DeviceCMYK, 1000, 1, false, strategyLUT},
	}

	env := convert.NewContext(nil)
	opt := &ConvertOptions{}
	for _, c := range cases {
		src := mustNew(t, c.src, c.w, c.h, nil, c.alpha)
		fill(src, 3)

		cv := must(env.NewConverter(c.src, c.dst, nil, nil, convert.Params{}))
		if got := chooseStrategy(cv, src); got != c.auto {
			t.Errorf("%s %dx%d: chose %s, want %s", c.src.Name(), c.w, c.h, got, c.auto)
		}
		cv.Close()

		candidates := []strategy{strategySmall, strategyLab, strategyMemo}
		if c.src.Channels() == 1 {
			candidates = append(candidates, strategyLUT)
		}
		var ref []byte
		for _, s := range candidates {
			dst := mustNew(t, c.dst, c.w, c.h, nil, c.alpha)
			err := convertPixels(context.Background(), env, dst, src, opt, spotsZero, s)
			if err != nil {
				t.Fatal(err)
			}
			if ref == nil {
				ref = dst.Samples
				continue
			}
			if d := cmp.Diff(ref, dst.Samples); d != "" {
				t.Errorf("%s -> %s %dx%d: strategy %s differs (-small +%s):\n%s",
					c.src.Name(), c.dst.Name(), c.w, c.h, s, s, d)
			}
		}
	}
}

func TestIndexedEquivalence(t *testing.T) {
	const high = 15
	table := make([]byte, 3*(high+1))
	for i := range table {
		table[i] = byte(i * 37)
	}
	idx := must(color.Indexed(color.DeviceRGB, high, table))

	src := mustNew(t, idx, high+1, 20, nil, false)
	rgb := mustNew(t, color.DeviceRGB, high+1, 20, nil, false)
	for y := range src.Height {
		for x := range src.Width {
			src.Pixel(x, y)[0] = byte(x)
			copy(rgb.Pixel(x, y), table[3*x:3*x+3])
		}
	}

	env := convert.NewContext(nil)
	a := mustNew(t, color.DeviceCMYK, high+1, 20, nil, false)
	b := mustNew(t, color.DeviceCMYK, high+1, 20, nil, false)
	if err := Convert(context.Background(), env, a, src, nil); err != nil {
		t.Fatal(err)
	}
	if err := Convert(context.Background(), env, b, rgb, nil); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(b.Samples, a.Samples); d != "" {
		t.Errorf("indexed and direct conversion differ (-direct +indexed):\n%s", d)
	}
}

func TestLabSource(t *testing.T) {
	src := mustNew(t, color.LabD50, 2, 1, nil, false)
	copy(src.Samples, []byte{255, 128, 128, 0, 128, 128})
	dst := mustNew(t, color.DeviceRGB, 2, 1, nil, false)

	env := convert.NewContext(nil)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{255, 255, 255, 0, 0, 0}
	if d := cmp.Diff(want, dst.Samples); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func TestGrayToCMYK(t *testing.T) {
	src := mustNew(t, color.DeviceGray, 3, 1, nil, true)
	copy(src.Samples, []byte{0, 255, 100, 200, 0, 0})
	dst := mustNew(t, color.DeviceCMYK, 3, 1, nil, true)

	env := convert.NewContext(nil)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0, 0, 0, 255, 255,
		0, 0, 0, 100, 200,
		0, 0, 0, 0, 0,
	}
	if d := cmp.Diff(want, dst.Samples); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func TestSeparationRemap(t *testing.T) {
	env := convert.NewContext(nil)
	srcSeps := twoInks(t, "Gold", "Silver")
	dstSeps := twoInks(t, "Gold")

	const w, h = 8, 4
	src := mustNew(t, color.DeviceCMYK, w, h, srcSeps, false)
	for y := range h {
		for x := range w {
			px := src.Pixel(x, y)
			px[0] = 10 // cyan
			px[4] = 77 // gold
		}
	}
	src.Pixel(3, 2)[5] = 255 // silver

	dst := mustNew(t, color.DeviceCMYK, w, h, dstSeps, false)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}

	eq, err := env.EquivalentColorFor(srcSeps, 1, color.DeviceCMYK, nil, nil, convert.Params{})
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		for x := range w {
			want := []byte{10, 0, 0, 0, 77}
			if x == 3 && y == 2 {
				for c := range 4 {
					want[c] = byte(min(int(want[c])+int(encode(eq[c], c, false)), 255))
				}
			}
			if d := cmp.Diff(want, dst.Pixel(x, y)); d != "" {
				t.Errorf("pixel (%d,%d) (-want +got):\n%s", x, y, d)
			}
		}
	}
}

func TestRemapSpecialInks(t *testing.T) {
	env := convert.NewContext(nil)
	srcSeps := twoInks(t, "All", "None")

	src := mustNew(t, color.DeviceRGB, 2, 1, srcSeps, true)
	copy(src.Samples, []byte{
		200, 200, 200, 100, 50, 200, // All=100, None=50
		100, 100, 100, 0, 255, 100,
	})
	dst := mustNew(t, color.DeviceRGB, 2, 1, nil, true)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		100, 100, 100, 200,
		100, 100, 100, 100,
	}
	if d := cmp.Diff(want, dst.Samples); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}

	dstCMYK := mustNew(t, color.DeviceCMYK, 2, 1, nil, true)
	if err := Convert(context.Background(), env, dstCMYK, src, nil); err != nil {
		t.Fatal(err)
	}
	for x := range 2 {
		px := dstCMYK.Pixel(x, 0)
		a := px[4]
		for _, v := range px[:4] {
			if v > a {
				t.Errorf("pixel %d: sample %d exceeds alpha %d", x, v, a)
			}
		}
	}
}

func TestConvertErrors(t *testing.T) {
	env := convert.NewContext(nil)
	src := mustNew(t, color.DeviceRGB, 10, 10, nil, false)

	view, err := mustNew(t, color.DeviceRGB, 20, 20, nil, false).SubView(5, 5, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	sep := must(color.Separation("Red", color.DeviceCMYK, &function.Type2{
		XMin: 0, XMax: 1, C0: []float64{0, 0, 0, 0}, C1: []float64{0, 1, 1, 0}, N: 1,
	}))

	cases := []struct {
		name string
		dst  *Pixmap
	}{
		{"size", mustNew(t, color.DeviceRGB, 10, 11, nil, false)},
		{"alpha", mustNew(t, color.DeviceRGB, 10, 10, nil, true)},
		{"read-only", view},
		{"separation", mustNew(t, sep, 10, 10, nil, false)},
		{"alpha-only", mustNew(t, nil, 10, 10, nil, true)},
	}
	for _, c := range cases {
		err := Convert(context.Background(), env, c.dst, src, nil)
		if !errors.Is(err, pdfcolor.ErrInvalidArgument) {
			t.Errorf("%s: expected InvalidArgument, got %v", c.name, err)
		}
	}
}

func TestCancel(t *testing.T) {
	env := convert.NewContext(nil)
	src := mustNew(t, color.DeviceRGB, 100, 100, nil, false)
	dst := mustNew(t, color.DeviceCMYK, 100, 100, nil, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Convert(ctx, env, dst, src, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// flakyEngine builds transforms which fail after a few colours.
type flakyEngine struct{}

func (flakyEngine) BuildTransform(req *cmm.Request) (cmm.Transform, error) {
	return &flakyTransform{from: req.Src.Model(), to: req.Dst.Model()}, nil
}

type flakyTransform struct {
	from, to cmm.Model
	calls    int
	err      error
}

func (t *flakyTransform) Apply(dst, src []float64) {
	t.calls++
	if t.calls > 5 {
		t.err = pdfcolor.Errorf(pdfcolor.LibraryError, "Apply", "engine failure")
		for i := range dst {
			dst[i] = 0.5
		}
		return
	}
	colconv.Convert(t.from, t.to, dst, src[:t.from.Channels()])
}

func (t *flakyTransform) Err() error {
	return t.err
}

func TestWholeBufferFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	env := convert.NewContext(&convert.Options{
		Engine: flakyEngine{},
		Logger: slog.New(slog.NewTextHandler(buf, nil)),
	})
	src := mustNew(t, color.DeviceRGB, 64, 64, nil, true)
	fill(src, 4)

	dst := mustNew(t, color.DeviceCMYK, 64, 64, nil, true)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}

	ref := mustNew(t, color.DeviceCMYK, 64, 64, nil, true)
	opt := &ConvertOptions{Params: convert.Params{Approximate: true}}
	if err := Convert(context.Background(), env, ref, src, opt); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dst.Samples, ref.Samples) {
		t.Error("buffer was not converted completely by the fallback")
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Error("fallback not logged")
	}
}

func TestSubView(t *testing.T) {
	p := mustNew(t, color.DeviceRGB, 10, 8, nil, false)
	fill(p, 5)
	v, err := p.SubView(2, 3, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !v.ReadOnly() || v.Width != 4 || v.Height != 5 {
		t.Fatal("wrong view geometry")
	}
	for y := range v.Height {
		for x := range v.Width {
			if !bytes.Equal(v.Pixel(x, y), p.Pixel(x+2, y+3)) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
	if err := v.Premultiply(); !errors.Is(err, pdfcolor.ErrInvalidArgument) {
		t.Error("modifying a view must fail")
	}
	if _, err := p.SubView(8, 0, 3, 1); !errors.Is(err, pdfcolor.ErrInvalidArgument) {
		t.Error("view outside the pixmap accepted")
	}
}

func TestICCChannelOrder(t *testing.T) {
	rgb := must(color.ICCBased(icc.SRGBv2Profile, color.KindRGB))
	bgr := must(color.ICCBased(icc.SRGBv2Profile, color.KindBGR))
	env := convert.NewContext(nil)

	src := mustNew(t, rgb, 2, 1, nil, false)
	copy(src.Samples, []byte{255, 0, 0, 0, 0, 255})
	dst := mustNew(t, bgr, 2, 1, nil, false)
	if err := Convert(context.Background(), env, dst, src, nil); err != nil {
		t.Fatal(err)
	}

	want := []byte{0, 0, 255, 255, 0, 0}
	for i, v := range dst.Samples {
		if d := int(v) - int(want[i]); d < -2 || d > 2 {
			t.Fatalf("got %v, want %v", dst.Samples, want)
		}
	}
}

func TestStaleSpotLayout(t *testing.T) {
	env := convert.NewContext(nil)
	seps := twoInks(t, "Gold", "Silver")

	if err := seps.SetState(1, separation.Composite); err != nil {
		t.Fatal(err)
	}
	src := mustNew(t, color.DeviceCMYK, 1, 1, seps, false)
	src.Pixel(0, 0)[4] = 200 // gold

	if err := seps.SetState(0, separation.Composite); err != nil {
		t.Fatal(err)
	}
	if err := seps.SetState(1, separation.Spot); err != nil {
		t.Fatal(err)
	}
	dst := mustNew(t, color.DeviceCMYK, 1, 1, seps, false)
	if src.SpotName(0) != "Gold" || dst.SpotName(0) != "Silver" {
		t.Fatal("unexpected spot layout")
	}

	err := Convert(context.Background(), env, dst, src, &ConvertOptions{CopySpots: true})
	if err != nil {
		t.Fatal(err)
	}

	// gold is merged into the process channels, silver stays empty
	want := []byte{0, mul255(200, 51), 200, 0, 0}
	if d := cmp.Diff(want, dst.Samples); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func must[T any](x T, err error) T {
	if err != nil {
		panic(err)
	}
	return x
}
