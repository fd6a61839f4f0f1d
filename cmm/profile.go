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

// Package cmm defines the boundary to the colour management engine.
//
// A colour management engine builds transforms between ICC profiles.  This
// package defines the [Engine] interface for such engines, the [Profile]
// type used to identify profiles, and a built-in engine [Approximate] which
// converts through CIE L*a*b* using closed-form formulas.
package cmm

import (
	"crypto/md5"
	"fmt"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/icc"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/internal/colconv"
)

// Digest is the 128-bit content digest of a profile.
type Digest [16]byte

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// Profile represents a colour profile.
//
// Profiles are either decoded from ICC data using [NewProfile], or are
// synthetic stand-ins for the device colour spaces, see [DeviceProfile].
type Profile struct {
	data   []byte
	model  Model
	digest Digest
	name   string
}

// NewProfile decodes an ICC profile.
//
// If model is non-zero, the number of components of the profile colour
// space must match the model.  A [pdfcolor.FormatError] is returned if the
// data cannot be decoded or if the profile is inconsistent with the model.
func NewProfile(data []byte, model Model) (*Profile, error) {
	if len(data) == 0 {
		return nil, pdfcolor.Errorf(pdfcolor.FormatError, "NewProfile", "missing profile data")
	}
	p, err := icc.Decode(data)
	if err != nil {
		return nil, pdfcolor.Wrap(pdfcolor.FormatError, "NewProfile", err)
	}

	var found Model
	switch p.ColorSpace {
	case icc.GraySpace:
		found = colconv.Gray
	case icc.RGBSpace:
		found = colconv.RGB
	case icc.CMYKSpace:
		found = colconv.CMYK
	case icc.CIELabSpace:
		found = colconv.Lab
	default:
		return nil, pdfcolor.Errorf(pdfcolor.FormatError, "NewProfile",
			"unsupported profile colour space %v", p.ColorSpace)
	}
	n := p.ColorSpace.NumComponents()
	if n != found.Channels() {
		return nil, pdfcolor.Errorf(pdfcolor.FormatError, "NewProfile",
			"profile has %d components, expected %d", n, found.Channels())
	}

	switch {
	case model == 0:
		model = found
	case model == colconv.BGR && found == colconv.RGB:
		// BGR spaces use RGB profiles with the channel order reversed
	case model != found:
		return nil, pdfcolor.Errorf(pdfcolor.FormatError, "NewProfile",
			"%s profile used for %s colour space", found, model)
	}

	return &Profile{
		data:   slices.Clone(data),
		model:  model,
		digest: profileDigest(data, model),
		name:   "ICC " + found.String(),
	}, nil
}

// profileDigest hashes the ICC data.  BGR profiles share their data with
// the corresponding RGB profile, so the channel order is part of the hash.
func profileDigest(data []byte, model Model) Digest {
	h := md5.New()
	h.Write(data)
	if model == colconv.BGR {
		h.Write([]byte("BGR"))
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

// DeviceProfile returns the synthetic profile representing the device colour
// space of the given model.  Device profiles have no ICC data.
func DeviceProfile(model Model) *Profile {
	switch model {
	case colconv.Gray:
		return deviceGray
	case colconv.RGB:
		return deviceRGB
	case colconv.BGR:
		return deviceBGR
	case colconv.CMYK:
		return deviceCMYK
	case colconv.Lab:
		return deviceLab
	default:
		panic(fmt.Sprintf("cmm: invalid colour model %d", model))
	}
}

var (
	deviceGray = newDeviceProfile(colconv.Gray, "DeviceGray")
	deviceRGB  = newDeviceProfile(colconv.RGB, "DeviceRGB")
	deviceBGR  = newDeviceProfile(colconv.BGR, "DeviceBGR")
	deviceCMYK = newDeviceProfile(colconv.CMYK, "DeviceCMYK")
	deviceLab  = newDeviceProfile(colconv.Lab, "Lab")
)

func newDeviceProfile(model Model, name string) *Profile {
	return &Profile{
		model:  model,
		digest: md5.Sum([]byte(name)),
		name:   name,
	}
}

// Model returns the colour model of the profile.
func (p *Profile) Model() Model {
	return p.model
}

// Components returns the number of colour components of the profile.
func (p *Profile) Components() int {
	return p.model.Channels()
}

// Digest returns the content digest of the profile.
func (p *Profile) Digest() Digest {
	return p.digest
}

// Data returns the ICC data of the profile, or nil for device profiles.
func (p *Profile) Data() []byte {
	return p.data
}

// IsDevice reports whether p is a synthetic device profile.
func (p *Profile) IsDevice() bool {
	return p.data == nil
}

// Name returns a short description of the profile.
func (p *Profile) Name() string {
	return p.name
}

// SRGB returns the built-in sRGB profile.
// The result is cached, repeated calls return the same pointer.
func SRGB() *Profile {
	srgbOnce.Do(func() {
		p, err := NewProfile(icc.SRGBv4Profile, colconv.RGB)
		if err != nil {
			panic(err)
		}
		p.name = "sRGB"
		srgbProfile = p
	})
	return srgbProfile
}

// Model identifies the colour model of a profile.
type Model = colconv.Model

// These are the colour models supported by profiles.
const (
	ModelGray = colconv.Gray
	ModelRGB  = colconv.RGB
	ModelBGR  = colconv.BGR
	ModelCMYK = colconv.CMYK
	ModelLab  = colconv.Lab
)
