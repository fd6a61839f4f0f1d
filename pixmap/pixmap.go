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
	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/separation"
)

// Pixmap is a rectangular buffer of interleaved 8-bit samples.
type Pixmap struct {
	Width, Height int

	// Space is the colour space of the process channels.
	// If this is nil, the pixmap has no process channels.
	Space color.Space

	// Seps (optional) lists the inks of the pixmap.  Inks in the spot state
	// at the time the pixmap was created form the spot channels.
	Seps *separation.Separations

	Alpha bool

	// Stride is the distance in bytes between two rows.
	Stride int

	Samples []byte

	spots    []int
	readOnly bool
}

// New allocates a new pixmap.  All samples are zero.
func New(space color.Space, width, height int, seps *separation.Separations, alpha bool) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "pixmap.New",
			"invalid size %dx%d", width, height)
	}
	p := &Pixmap{
		Width:  width,
		Height: height,
		Space:  space,
		Seps:   seps,
		Alpha:  alpha,
		spots:  seps.ActiveSpots(),
	}
	if p.N() == 0 {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "pixmap.New",
			"pixmap without channels")
	}
	p.Stride = width * p.N()
	p.Samples = make([]byte, p.Stride*height)
	return p, nil
}

// Colorants returns the number of process channels.
func (p *Pixmap) Colorants() int {
	return color.Channels(p.Space)
}

// Spots returns the number of spot channels.
func (p *Pixmap) Spots() int {
	return len(p.spots)
}

// SpotName returns the ink name of spot channel k.
func (p *Pixmap) SpotName(k int) string {
	return p.Seps.Name(p.spots[k])
}

// N returns the number of bytes per pixel.
func (p *Pixmap) N() int {
	n := p.Colorants() + len(p.spots)
	if p.Alpha {
		n++
	}
	return n
}

// Row returns the samples of row y.
func (p *Pixmap) Row(y int) []byte {
	start := y * p.Stride
	return p.Samples[start : start+p.Width*p.N()]
}

// Pixel returns the samples of the pixel at (x, y).
func (p *Pixmap) Pixel(x, y int) []byte {
	n := p.N()
	start := y*p.Stride + x*n
	return p.Samples[start : start+n]
}

// ReadOnly reports whether p is a read-only view.
func (p *Pixmap) ReadOnly() bool {
	return p.readOnly
}

// SubView returns a read-only view of a rectangle of p.
// The view shares the samples of p and must not be used after p has been
// modified or discarded.
func (p *Pixmap) SubView(x, y, width, height int) (*Pixmap, error) {
	if x < 0 || y < 0 || width < 0 || height < 0 ||
		x+width > p.Width || y+height > p.Height {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "SubView",
			"rectangle %dx%d+%d+%d outside %dx%d pixmap",
			width, height, x, y, p.Width, p.Height)
	}
	view := *p
	view.Width = width
	view.Height = height
	view.readOnly = true
	if width > 0 && height > 0 {
		start := y*p.Stride + x*p.N()
		end := (y+height-1)*p.Stride + (x+width)*p.N()
		view.Samples = p.Samples[start:end:end]
	} else {
		view.Samples = nil
	}
	return &view, nil
}

// Premultiply multiplies all colour and spot samples by alpha.
func (p *Pixmap) Premultiply() error {
	return p.mapAlpha("Premultiply", mul255)
}

// Unpremultiply divides all colour and spot samples by alpha.
func (p *Pixmap) Unpremultiply() error {
	return p.mapAlpha("Unpremultiply", unpremul)
}

func (p *Pixmap) mapAlpha(op string, fn func(c, a byte) byte) error {
	if p.readOnly {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, op, "read-only pixmap")
	}
	if !p.Alpha {
		return nil
	}
	n := p.N()
	for y := range p.Height {
		row := p.Row(y)
		for x := 0; x < len(row); x += n {
			px := row[x : x+n]
			a := px[n-1]
			for i := range px[:n-1] {
				px[i] = fn(px[i], a)
			}
		}
	}
	return nil
}

// mul255 returns a·b/255, rounded.
func mul255(a, b byte) byte {
	x := uint32(a)*uint32(b) + 128
	return byte((x + x>>8) >> 8)
}

// unpremul divides c by alpha a, with rounding.  Zero alpha gives zero.
func unpremul(c, a byte) byte {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return byte(v)
}
