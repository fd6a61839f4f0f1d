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

import "seehuhn.de/go/pdfcolor"

// Defaults is the set of default colour spaces of a rendering context.
//
// Device spaces used by a document are replaced by the corresponding slot
// before conversion.  A Defaults value is owned by its rendering context
// and must not be modified concurrently.  Use [Defaults.Clone] when
// entering a nested content stream.
type Defaults struct {
	gray         Space
	rgb          Space
	cmyk         Space
	outputIntent Space
}

// NewDefaults returns a set of defaults which maps every device space to
// itself and has no output intent.
func NewDefaults() *Defaults {
	return &Defaults{
		gray: DeviceGray,
		rgb:  DeviceRGB,
		cmyk: DeviceCMYK,
	}
}

// SRGBDefaults returns a set of defaults where DeviceRGB is interpreted
// as sRGB.
func SRGBDefaults() *Defaults {
	d := NewDefaults()
	d.rgb = SRGB()
	return d
}

// Clone returns a copy of d.  The colour spaces are shared.
func (d *Defaults) Clone() *Defaults {
	c := *d
	return &c
}

// Gray returns the space used in place of DeviceGray.
func (d *Defaults) Gray() Space { return d.gray }

// RGB returns the space used in place of DeviceRGB.
func (d *Defaults) RGB() Space { return d.rgb }

// CMYK returns the space used in place of DeviceCMYK.
func (d *Defaults) CMYK() Space { return d.cmyk }

// OutputIntent returns the output intent, or nil if none is set.
func (d *Defaults) OutputIntent() Space { return d.outputIntent }

// SetGray sets the space used in place of DeviceGray.
func (d *Defaults) SetGray(s Space) error {
	if err := checkSlot("SetGray", s, KindGray); err != nil {
		return err
	}
	d.gray = s
	return nil
}

// SetRGB sets the space used in place of DeviceRGB.
func (d *Defaults) SetRGB(s Space) error {
	if err := checkSlot("SetRGB", s, KindRGB); err != nil {
		return err
	}
	d.rgb = s
	return nil
}

// SetCMYK sets the space used in place of DeviceCMYK.
func (d *Defaults) SetCMYK(s Space) error {
	if err := checkSlot("SetCMYK", s, KindCMYK); err != nil {
		return err
	}
	d.cmyk = s
	return nil
}

// SetOutputIntent sets the output intent.  This must be a process colour
// space, or nil to clear the output intent.
func (d *Defaults) SetOutputIntent(s Space) error {
	if s != nil && !IsProcess(s) {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "SetOutputIntent",
			"%s is not a process colour space", s.Name())
	}
	d.outputIntent = s
	return nil
}

// Resolve returns the space which is used in place of s.
// Device spaces are replaced by the corresponding slot, all other spaces
// are returned unchanged.  A nil receiver resolves every space to itself.
func (d *Defaults) Resolve(s Space) Space {
	dev, ok := s.(spaceDevice)
	if d == nil || !ok {
		return s
	}
	switch dev.kind {
	case KindGray:
		return d.gray
	case KindRGB:
		return d.rgb
	case KindCMYK:
		return d.cmyk
	default:
		return s
	}
}

func checkSlot(op string, s Space, kind Kind) error {
	if s == nil {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, op, "missing colour space")
	}
	if s.Kind() != kind || s.Channels() != modelOf(kind).Channels() {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, op,
			"%s cannot replace Device%s", s.Name(), kind)
	}
	return nil
}
