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
	"math"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
)

// MaxChannels is the maximum number of channels of a colour space.
const MaxChannels = 32

// Kind identifies the variant of a colour space.
type Kind uint8

// These are the supported colour space kinds.
// The zero value KindNone is the kind of a nil Space.
const (
	KindNone Kind = iota
	KindGray
	KindRGB
	KindBGR
	KindCMYK
	KindLab
	KindIndexed
	KindSeparation
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindGray:
		return "Gray"
	case KindRGB:
		return "RGB"
	case KindBGR:
		return "BGR"
	case KindCMYK:
		return "CMYK"
	case KindLab:
		return "Lab"
	case KindIndexed:
		return "Indexed"
	case KindSeparation:
		return "Separation"
	default:
		return "invalid"
	}
}

// Flags describe properties of a colour space.
type Flags uint8

// These are the flags used for colour spaces.
const (
	FlagDevice Flags = 1 << iota
	FlagICC
	FlagHasCMYK
	FlagHasSpot
)

// Space represents a colour space.
//
// The set of implementations is closed: every Space is one of
// the device spaces, [*SpaceLab], [*SpaceICCBased], [*SpaceIndexed] or
// [*SpaceSeparation].
type Space interface {
	// Kind returns the variant of the colour space.
	Kind() Kind

	// Channels returns the number of colour components.
	Channels() int

	// Name returns a short, human readable description.
	Name() string

	// Flags returns the properties of the colour space.
	Flags() Flags

	isSpace()
}

// KindOf returns the kind of s.  This is [KindNone] if s is nil.
func KindOf(s Space) Kind {
	if s == nil {
		return KindNone
	}
	return s.Kind()
}

// Channels returns the number of channels of s, or 0 if s is nil.
func Channels(s Space) int {
	if s == nil {
		return 0
	}
	return s.Channels()
}

// IsProcess reports whether s is a process colour space, i.e. neither
// Indexed nor a Separation space.
func IsProcess(s Space) bool {
	switch s.(type) {
	case spaceDevice, *SpaceLab, *SpaceICCBased:
		return true
	default:
		return false
	}
}

// BaseOf returns the base space of an Indexed space.
// For all other spaces, s itself is returned.
func BaseOf(s Space) Space {
	if idx, ok := s.(*SpaceIndexed); ok {
		return idx.Base
	}
	return s
}

// IsSubtractive reports whether s is a subtractive colour space.
// This is the case for CMYK spaces, for Separation spaces with a
// subtractive base, and for Indexed spaces with a subtractive base.
func IsSubtractive(s Space) bool {
	switch s := s.(type) {
	case spaceDevice:
		return s.kind == KindCMYK
	case *SpaceICCBased:
		return s.kind == KindCMYK
	case *SpaceIndexed:
		return IsSubtractive(s.Base)
	case *SpaceSeparation:
		return IsSubtractive(s.Base)
	default:
		return false
	}
}

var processColorants = map[Kind][]string{
	KindGray: {"Gray"},
	KindRGB:  {"Red", "Green", "Blue"},
	KindBGR:  {"Blue", "Green", "Red"},
	KindCMYK: {"Cyan", "Magenta", "Yellow", "Black"},
	KindLab:  {"L*", "a*", "b*"},
}

// ColorantName returns the name of colour component i of s.
func ColorantName(s Space, i int) (string, error) {
	if s == nil || i < 0 || i >= s.Channels() {
		return "", pdfcolor.Errorf(pdfcolor.OutOfRange, "ColorantName",
			"colorant %d out of range for %s", i, nameOf(s))
	}
	switch s := s.(type) {
	case *SpaceIndexed:
		return "Index", nil
	case *SpaceSeparation:
		return s.colorants[i], nil
	default:
		return processColorants[s.Kind()][i], nil
	}
}

// Clamp clamps the colour values in to the legal range of s and stores the
// result in out.  Both slices must have length s.Channels().
//
// Lab values are clamped to L ∈ [0, 100] and a, b ∈ [-128, 127].  Indexed
// values are interpreted as index/255; the index is rounded to the nearest
// integer and clamped to [0, high].  All other values are clamped to [0, 1].
func Clamp(s Space, in, out []float64) {
	n := s.Channels()
	switch s.Kind() {
	case KindLab:
		out[0] = clamp(in[0], 0, 100)
		out[1] = clamp(in[1], -128, 127)
		out[2] = clamp(in[2], -128, 127)
	case KindIndexed:
		high := s.(*SpaceIndexed).High
		idx := clamp(math.Round(in[0]*255), 0, float64(high))
		out[0] = idx / 255
	default:
		for i := range n {
			out[i] = clamp(in[i], 0, 1)
		}
	}
}

// ProfileOf returns the profile used to convert colours from or to the
// process space s.  Device spaces return the synthetic device profiles.
// ProfileOf returns nil for Indexed and Separation spaces.
func ProfileOf(s Space) *cmm.Profile {
	switch s := s.(type) {
	case spaceDevice:
		return cmm.DeviceProfile(modelOf(s.kind))
	case *SpaceLab:
		return cmm.DeviceProfile(cmm.ModelLab)
	case *SpaceICCBased:
		return s.profile
	default:
		return nil
	}
}

// Digest returns the content digest of the process space s.  Process spaces
// with equal digests convert colours identically.
// The zero digest is returned for Indexed and Separation spaces.
func Digest(s Space) cmm.Digest {
	p := ProfileOf(s)
	if p == nil {
		return cmm.Digest{}
	}
	return p.Digest()
}

// DeviceEquivalent returns the process-only variant of s: ICC-based spaces
// are replaced by the device space of the same kind.  Other spaces are
// returned unchanged.
func DeviceEquivalent(s Space) Space {
	icc, ok := s.(*SpaceICCBased)
	if !ok {
		return s
	}
	switch icc.kind {
	case KindGray:
		return DeviceGray
	case KindRGB:
		return DeviceRGB
	case KindBGR:
		return DeviceBGR
	case KindCMYK:
		return DeviceCMYK
	default:
		return LabD50
	}
}

func modelOf(k Kind) cmm.Model {
	switch k {
	case KindGray:
		return cmm.ModelGray
	case KindRGB:
		return cmm.ModelRGB
	case KindBGR:
		return cmm.ModelBGR
	case KindCMYK:
		return cmm.ModelCMYK
	case KindLab:
		return cmm.ModelLab
	default:
		return 0
	}
}

func nameOf(s Space) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func checkChannels(op string, n int) error {
	if n < 1 || n > MaxChannels {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, op,
			"invalid number of channels %d", n)
	}
	return nil
}
