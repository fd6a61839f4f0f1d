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
	"math"

	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/convert"
	"seehuhn.de/go/pdfcolor/graphics/color"
)

// ConvertOptions control a pixmap conversion.
// The zero value is ready to use.
type ConvertOptions struct {
	// Proof (optional) is the proofing space.
	Proof color.Space

	// Defaults (optional) replace device spaces.
	Defaults *color.Defaults

	Params convert.Params

	// CopySpots requests that spot channels are copied unchanged when source
	// and destination carry the same inks.  Otherwise spot channels of the
	// destination are cleared.
	CopySpots bool
}

// smallSize is the number of pixels below which buffers are converted
// pixel by pixel.
const smallSize = 256

// maxMemo limits the size of the memoisation table.
const maxMemo = 1 << 16

type strategy int

const (
	strategyAuto strategy = iota
	strategyIdentity
	strategyKOnly
	strategyLab
	strategySmall
	strategyLUT
	strategyMemo
)

func (s strategy) String() string {
	switch s {
	case strategyAuto:
		return "auto"
	case strategyIdentity:
		return "identity"
	case strategyKOnly:
		return "k-only"
	case strategyLab:
		return "lab"
	case strategySmall:
		return "small"
	case strategyLUT:
		return "lut"
	case strategyMemo:
		return "memo"
	default:
		return "invalid"
	}
}

type spotMode int

const (
	spotsZero spotMode = iota
	spotsCopy
	spotsSkip
)

// Convert converts the samples of src into the colour space of dst.
//
// Both pixmaps must have the same size and the same alpha layout, and dst
// must be writable.  If the spot inks of src and dst differ, inks which are
// missing in dst are merged into the process channels of dst.
//
// Failures of the colour management engine do not cause an error: the
// conversion is redone using an approximate converter instead.  The context
// is checked once per row; on cancellation the contents of dst are
// undefined.
func Convert(ctx context.Context, env *convert.Context, dst, src *Pixmap, opt *ConvertOptions) error {
	if opt == nil {
		opt = &ConvertOptions{}
	}
	if err := checkPair(dst, src); err != nil {
		return err
	}

	if !sameSpots(dst, src) {
		return remap(ctx, env, dst, src, opt)
	}
	mode := spotsZero
	if opt.CopySpots {
		mode = spotsCopy
	}
	return convertPixels(ctx, env, dst, src, opt, mode, strategyAuto)
}

// sameSpots reports whether both pixmaps have the same spot channels, in
// the same order.  The layouts recorded in the pixmaps are compared, since
// the ink states may have changed after the pixmaps were created.
func sameSpots(dst, src *Pixmap) bool {
	if src.Spots() != dst.Spots() {
		return false
	}
	for k := range src.spots {
		if norm.NFC.String(src.SpotName(k)) != norm.NFC.String(dst.SpotName(k)) {
			return false
		}
	}
	return true
}

func checkPair(dst, src *Pixmap) error {
	switch {
	case dst.readOnly:
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "Convert",
			"destination is a read-only view")
	case dst.Width != src.Width || dst.Height != src.Height:
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "Convert",
			"size mismatch: %dx%d vs. %dx%d",
			src.Width, src.Height, dst.Width, dst.Height)
	case dst.Alpha != src.Alpha:
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "Convert",
			"alpha mismatch")
	case (dst.Space == nil) != (src.Space == nil):
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "Convert",
			"cannot convert between colour and alpha-only pixmaps")
	}
	return nil
}

// convertPixels converts the process channels and the alpha channel.
// Spot channels are handled according to mode.
func convertPixels(ctx context.Context, env *convert.Context, dst, src *Pixmap, opt *ConvertOptions, mode spotMode, force strategy) error {
	if src.Space == nil {
		k := &kernel{alpha: src.Alpha}
		return run(ctx, k, dst, src, mode, strategyIdentity)
	}

	params := opt.Params
	params.SrcExtras = src.Spots()
	params.DstExtras = dst.Spots()
	params.CopySpots = mode == spotsCopy
	if src.Alpha {
		params.Format |= cmm.FormatAlpha | cmm.FormatPremultiplied
	}

	cv, err := env.NewConverter(src.Space, dst.Space, opt.Proof, opt.Defaults, params)
	if err != nil {
		return err
	}
	k := newKernel(cv, src, dst)
	s := force
	if s == strategyAuto {
		s = chooseStrategy(cv, src)
	}
	err = run(ctx, k, dst, src, mode, s)
	convErr := cv.Err()
	cv.Close()
	if err != nil || convErr == nil {
		return err
	}

	env.Logger().Warn("colour transform failed, converting approximately",
		"src", src.Space.Name(), "dst", dst.Space.Name(), "err", convErr)
	params.Approximate = true
	cv, err = env.NewConverter(src.Space, dst.Space, opt.Proof, opt.Defaults, params)
	if err != nil {
		return err
	}
	defer cv.Close()
	k = newKernel(cv, src, dst)
	if force == strategyAuto {
		s = chooseStrategy(cv, src)
	}
	return run(ctx, k, dst, src, mode, s)
}

func chooseStrategy(cv *convert.Converter, src *Pixmap) strategy {
	steps := cv.Steps()
	if len(steps) == 1 {
		switch steps[0] {
		case convert.StepIdentity:
			return strategyIdentity
		case convert.StepKOnly:
			return strategyKOnly
		}
	}
	switch {
	case src.Space.Kind() == color.KindLab:
		return strategyLab
	case src.Width*src.Height < smallSize:
		return strategySmall
	case src.Colorants() == 1:
		return strategyLUT
	default:
		return strategyMemo
	}
}

// kernel converts the process samples of single pixels.  All strategies
// use the same kernel, so that the results do not depend on the strategy.
type kernel struct {
	cv     *convert.Converter
	sn, dn int
	alpha  bool
	srcLab bool
	dstLab bool
	in     []float64
	out    []float64
}

func newKernel(cv *convert.Converter, src, dst *Pixmap) *kernel {
	sn := src.Colorants()
	dn := dst.Colorants()
	return &kernel{
		cv:     cv,
		sn:     sn,
		dn:     dn,
		alpha:  src.Alpha,
		srcLab: src.Space.Kind() == color.KindLab,
		dstLab: dst.Space.Kind() == color.KindLab,
		in:     make([]float64, sn),
		out:    make([]float64, dn),
	}
}

// straight converts non-premultiplied samples.
func (k *kernel) straight(d, s []byte) {
	for i, v := range s[:k.sn] {
		k.in[i] = decode(v, i, k.srcLab)
	}
	k.cv.Convert(k.out, k.in)
	for j, x := range k.out {
		d[j] = encode(x, j, k.dstLab)
	}
}

// pixel converts the process samples s with alpha a into d.
func (k *kernel) pixel(d, s []byte, a byte) {
	if a == 0 {
		clear(d[:k.dn])
		return
	}
	if a == 255 {
		k.straight(d, s)
		return
	}
	var tmp [color.MaxChannels]byte
	for i := range k.sn {
		tmp[i] = unpremul(s[i], a)
	}
	k.straight(d, tmp[:k.sn])
	for j := range k.dn {
		d[j] = mul255(d[j], a)
	}
}

// decode maps a sample byte to a colour value.
func decode(v byte, channel int, lab bool) float64 {
	if !lab {
		return float64(v) / 255
	}
	if channel == 0 {
		return float64(v) * 100 / 255
	}
	return float64(v) - 128
}

// encode maps a colour value to a sample byte.
func encode(x float64, channel int, lab bool) byte {
	if lab {
		if channel == 0 {
			x = x * 255 / 100
		} else {
			x += 128
		}
	} else {
		x *= 255
	}
	x = math.Round(x)
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return byte(x)
}

// run executes the given strategy for all rows.
func run(ctx context.Context, k *kernel, dst, src *Pixmap, mode spotMode, s strategy) error {
	sN := src.N()
	dN := dst.N()
	sn, dn := k.sn, k.dn
	spots := src.Spots()

	var lut []byte
	var memo map[string][]byte
	var prev, prevOut []byte
	switch s {
	case strategyLUT:
		lut = make([]byte, 256*dn)
		for v := range 256 {
			k.straight(lut[v*dn:(v+1)*dn], []byte{byte(v)})
		}
	case strategyMemo:
		memo = make(map[string][]byte)
		prevOut = make([]byte, dn)
	}

	for y := range src.Height {
		if err := ctx.Err(); err != nil {
			return err
		}
		srow := src.Row(y)
		drow := dst.Row(y)
		for x := range src.Width {
			sp := srow[x*sN : (x+1)*sN]
			dp := drow[x*dN : (x+1)*dN]
			a := byte(255)
			if k.alpha {
				a = sp[sN-1]
			}

			switch s {
			case strategyIdentity:
				copy(dp[:dn], sp[:sn])
			case strategyKOnly:
				dp[0], dp[1], dp[2] = 0, 0, 0
				dp[3] = a - min(sp[0], a)
			case strategyLab, strategySmall:
				k.pixel(dp, sp, a)
			case strategyLUT:
				v := sp[0]
				if a == 0 {
					clear(dp[:dn])
					break
				}
				if a != 255 {
					v = unpremul(v, a)
				}
				copy(dp[:dn], lut[int(v)*dn:])
				if a != 255 {
					for j := range dn {
						dp[j] = mul255(dp[j], a)
					}
				}
			case strategyMemo:
				if prev != nil && bytes.Equal(sp, prev) {
					copy(dp[:dn], prevOut)
					break
				}
				out, ok := memo[string(sp)]
				if !ok {
					out = make([]byte, dn)
					k.pixel(out, sp, a)
					if len(memo) >= maxMemo {
						clear(memo)
					}
					memo[string(sp)] = out
				}
				copy(dp[:dn], out)
				prev = sp
				copy(prevOut, out)
			}

			switch mode {
			case spotsCopy:
				copy(dp[dn:dn+spots], sp[sn:sn+spots])
			case spotsZero:
				clear(dp[dn : dN-boolInt(k.alpha)])
			}
			if k.alpha {
				dp[dN-1] = a
			}
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// spotIndex returns the position of the spot channel with the given ink
// name, or -1.
func spotIndex(p *Pixmap, name string) int {
	i := p.Seps.Index(name)
	if i < 0 {
		return -1
	}
	return slices.Index(p.spots, i)
}
