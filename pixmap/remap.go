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
	"context"

	"seehuhn.de/go/pdfcolor/convert"
	"seehuhn.de/go/pdfcolor/graphics/color"
)

// remap converts src into dst when the two pixmaps carry different spot
// inks.  Spot channels present in both pixmaps are copied, missing source
// inks are merged into the process channels of dst.
func remap(ctx context.Context, env *convert.Context, dst, src *Pixmap, opt *ConvertOptions) error {
	if err := convertPixels(ctx, env, dst, src, opt, spotsSkip, strategyAuto); err != nil {
		return err
	}

	// destination spot k is copied from source spot srcOf[k], or cleared
	srcOf := make([]int, dst.Spots())
	mapped := make([]bool, src.Spots())
	for k := range srcOf {
		j := spotIndex(src, dst.SpotName(k))
		srcOf[k] = j
		if j >= 0 {
			mapped[j] = true
		}
	}

	var merges []inkMerge
	dn := dst.Colorants()
	if dn > 0 && dst.Space.Kind() != color.KindLab {
		for j, ok := range mapped {
			if ok {
				continue
			}
			name := src.SpotName(j)
			switch name {
			case "None":
				continue
			case "All":
				merges = append(merges, inkMerge{channel: j, all: true})
				continue
			}
			eq, err := env.EquivalentColorFor(src.Seps, src.spots[j], dst.Space,
				opt.Proof, opt.Defaults, opt.Params)
			if err != nil {
				return err
			}
			m := inkMerge{channel: j, eq: make([]byte, dn)}
			for c, x := range eq {
				m.eq[c] = encode(x, c, false)
			}
			merges = append(merges, m)
		}
	} else if dn > 0 {
		env.Logger().Debug("spot inks dropped for Lab destination",
			"dst", dst.Space.Name())
	}

	subtractive := color.IsSubtractive(dst.Space)
	sN, dN := src.N(), dst.N()
	sn := src.Colorants()
	for y := range src.Height {
		if err := ctx.Err(); err != nil {
			return err
		}
		srow := src.Row(y)
		drow := dst.Row(y)
		for x := range src.Width {
			sp := srow[x*sN : (x+1)*sN]
			dp := drow[x*dN : (x+1)*dN]

			for k, j := range srcOf {
				if j >= 0 {
					dp[dn+k] = sp[sn+j]
				} else {
					dp[dn+k] = 0
				}
			}

			limit := byte(255)
			if src.Alpha {
				limit = sp[sN-1]
			}
			for _, m := range merges {
				v := sp[sn+m.channel]
				if v == 0 {
					continue
				}
				m.apply(dp[:dn], v, limit, subtractive)
			}
		}
	}
	return nil
}

// inkMerge describes how a source spot ink is merged into the process
// channels of the destination.
type inkMerge struct {
	channel int
	all     bool   // ink "All": the value applies to every channel
	eq      []byte // equivalent colour in the destination space
}

// apply merges ink coverage v into the process samples d, saturating at
// limit.  Subtractive spaces accumulate ink, additive spaces remove
// light.
func (m *inkMerge) apply(d []byte, v, limit byte, subtractive bool) {
	for c := range d {
		var delta byte
		switch {
		case m.all:
			delta = v
		case subtractive:
			delta = mul255(v, m.eq[c])
		default:
			delta = mul255(v, 255-m.eq[c])
		}

		if subtractive {
			d[c] = byte(min(int(d[c])+int(delta), int(limit)))
		} else {
			d[c] = byte(max(int(d[c])-int(delta), 0))
		}
	}
}
