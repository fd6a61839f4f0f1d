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
	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/cmm"
)

// SpaceICCBased represents a colour space backed by an ICC profile.
type SpaceICCBased struct {
	kind    Kind
	profile *cmm.Profile
}

// ICCBased returns a new ICC-based colour space of the given kind.
//
// Kind must be one of [KindGray], [KindRGB], [KindBGR], [KindCMYK] or
// [KindLab].  A [pdfcolor.FormatError] is returned if the profile does not
// match the kind.
func ICCBased(profile []byte, kind Kind) (*SpaceICCBased, error) {
	model := modelOf(kind)
	if model == 0 {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "ICCBased",
			"invalid kind %s", kind)
	}
	p, err := cmm.NewProfile(profile, model)
	if err != nil {
		return nil, err
	}
	return &SpaceICCBased{kind: kind, profile: p}, nil
}

// ICCBasedFromProfile returns a colour space for an already decoded profile.
func ICCBasedFromProfile(p *cmm.Profile) (*SpaceICCBased, error) {
	if p == nil || p.IsDevice() {
		return nil, pdfcolor.Errorf(pdfcolor.InvalidArgument, "ICCBased", "invalid profile")
	}
	var kind Kind
	switch p.Model() {
	case cmm.ModelGray:
		kind = KindGray
	case cmm.ModelRGB:
		kind = KindRGB
	case cmm.ModelBGR:
		kind = KindBGR
	case cmm.ModelCMYK:
		kind = KindCMYK
	case cmm.ModelLab:
		kind = KindLab
	}
	return &SpaceICCBased{kind: kind, profile: p}, nil
}

// SRGB returns an RGB colour space backed by the built-in sRGB profile.
func SRGB() *SpaceICCBased {
	return &SpaceICCBased{kind: KindRGB, profile: cmm.SRGB()}
}

// Kind implements the [Space] interface.
func (s *SpaceICCBased) Kind() Kind { return s.kind }

// Channels implements the [Space] interface.
func (s *SpaceICCBased) Channels() int { return s.profile.Components() }

// Name implements the [Space] interface.
func (s *SpaceICCBased) Name() string { return s.profile.Name() }

// Flags implements the [Space] interface.
func (s *SpaceICCBased) Flags() Flags {
	if s.kind == KindCMYK {
		return FlagICC | FlagHasCMYK
	}
	return FlagICC
}

// Profile returns the profile of the colour space.
func (s *SpaceICCBased) Profile() *cmm.Profile { return s.profile }

func (s *SpaceICCBased) isSpace() {}
