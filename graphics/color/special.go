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

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/function"
)

// == Indexed ================================================================

// SpaceIndexed represents an indexed colour space.
//
// Colour values of an indexed space are index/255, matching the byte
// representation used in pixel buffers.
type SpaceIndexed struct {
	Base Space
	High int

	// lookup contains High+1 entries of Base.Channels() bytes each.
	lookup []byte
}

// Indexed returns a new indexed colour space.
//
// The base space must not be an indexed space; it may be a Separation space.
// High must be in the range 0 to 255, and lookup must contain at least
// (high+1)·base.Channels() bytes.  Excess bytes are ignored.
func Indexed(base Space, high int, lookup []byte) (*SpaceIndexed, error) {
	if base == nil {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Indexed", "missing base space")
	}
	if base.Kind() == KindIndexed {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Indexed",
			"invalid base color space %s", base.Name())
	}
	if high < 0 || high > 255 {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Indexed",
			"invalid high value %d", high)
	}
	need := (high + 1) * base.Channels()
	if len(lookup) < need {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Indexed",
			"lookup table too short: %d < %d bytes", len(lookup), need)
	}

	return &SpaceIndexed{
		Base:   base,
		High:   high,
		lookup: slices.Clone(lookup[:need]),
	}, nil
}

// Kind returns [KindIndexed].
func (s *SpaceIndexed) Kind() Kind { return KindIndexed }

// Channels returns 1.
func (s *SpaceIndexed) Channels() int { return 1 }

// Name implements the [Space] interface.
func (s *SpaceIndexed) Name() string {
	return fmt.Sprintf("Indexed(%s, %d)", s.Base.Name(), s.High)
}

// Flags implements the [Space] interface.
func (s *SpaceIndexed) Flags() Flags {
	return s.Base.Flags() &^ FlagDevice
}

// Entry returns the raw lookup table bytes for the given index.
// Indices outside [0, High] are clamped.
func (s *SpaceIndexed) Entry(idx int) []byte {
	idx = max(0, min(idx, s.High))
	n := s.Base.Channels()
	return s.lookup[idx*n : (idx+1)*n]
}

// Lookup stores the base space values of palette entry idx in out.
// Lab bases map the table bytes to L ∈ [0, 100] and a, b ∈ [-128, 127],
// all other bases map bytes to [0, 1].
func (s *SpaceIndexed) Lookup(idx int, out []float64) {
	entry := s.Entry(idx)
	if s.Base.Kind() == KindLab {
		out[0] = float64(entry[0]) * 100 / 255
		out[1] = float64(entry[1]) - 128
		out[2] = float64(entry[2]) - 128
		return
	}
	for i, b := range entry {
		out[i] = float64(b) / 255
	}
}

func (s *SpaceIndexed) isSpace() {}

// == Separation =============================================================

// SpaceSeparation represents a Separation or DeviceN colour space.
//
// Each colour component corresponds to a named colorant.  The tint transform
// maps the tints (0 = no ink, 1 = full ink) to colours in the base space.
type SpaceSeparation struct {
	Base Space
	Tint function.Func

	colorants []string
	deviceN   bool
}

// Separation returns a new single-colorant separation colour space.
//
// The colorant name may be any name, including the special names "All"
// (all device colorants) and "None" (no visible output).
func Separation(colorant string, base Space, tint function.Func) (*SpaceSeparation, error) {
	if colorant == "" {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Separation", "missing colorant name")
	}
	return newSeparation("Separation", []string{colorant}, base, tint, false)
}

// DeviceN returns a new DeviceN colour space.
//
// Colorant names must be unique, except for "None" which may repeat.
// The special name "All" is not allowed.
func DeviceN(colorants []string, base Space, tint function.Func) (*SpaceSeparation, error) {
	seen := make(map[string]bool)
	for _, name := range colorants {
		switch {
		case name == "None":
			continue
		case name == "All" || name == "":
			return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "DeviceN",
				"invalid colorant name %q", name)
		case seen[name]:
			return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "DeviceN",
				"duplicate colorant name %q", name)
		}
		seen[name] = true
	}
	return newSeparation("DeviceN", slices.Clone(colorants), base, tint, true)
}

func newSeparation(op string, colorants []string, base Space, tint function.Func, deviceN bool) (*SpaceSeparation, error) {
	if err := checkChannels(op, len(colorants)); err != nil {
		return nil, err
	}
	if base == nil {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, op, "missing base space")
	}
	if tint == nil {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, op, "missing tint transform")
	}
	nIn, nOut := tint.Shape()
	if nIn != len(colorants) || nOut != base.Channels() {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, op,
			"tint transform has shape %d->%d, expected %d->%d",
			nIn, nOut, len(colorants), base.Channels())
	}
	if err := function.Check(tint); err != nil {
		return nil, pdfcolor.Wrap(pdfcolor.InvalidArgument, op, err)
	}

	return &SpaceSeparation{
		Base:      base,
		Tint:      tint,
		colorants: colorants,
		deviceN:   deviceN,
	}, nil
}

// Kind returns [KindSeparation].
func (s *SpaceSeparation) Kind() Kind { return KindSeparation }

// Channels returns the number of colorants.
func (s *SpaceSeparation) Channels() int { return len(s.colorants) }

// Name implements the [Space] interface.
func (s *SpaceSeparation) Name() string {
	if s.deviceN {
		return "DeviceN(" + strings.Join(s.colorants, ",") + ")"
	}
	return "Separation(" + s.colorants[0] + ")"
}

// Flags implements the [Space] interface.
func (s *SpaceSeparation) Flags() Flags {
	var flags Flags
	for _, name := range s.colorants {
		switch name {
		case "None":
			// no visible output
		case "Cyan", "Magenta", "Yellow", "Black", "All":
			flags |= FlagHasCMYK
		default:
			flags |= FlagHasSpot
		}
	}
	return flags
}

// Colorants returns the colorant names.
func (s *SpaceSeparation) Colorants() []string {
	return slices.Clone(s.colorants)
}

// IsDeviceN reports whether the space was created using [DeviceN].
func (s *SpaceSeparation) IsDeviceN() bool {
	return s.deviceN
}

func (s *SpaceSeparation) isSpace() {}
