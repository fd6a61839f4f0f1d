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

// spaceDevice represents one of the device colour spaces.
type spaceDevice struct {
	kind Kind
}

// Singleton objects for the device colour spaces.
var (
	DeviceGray Space = spaceDevice{kind: KindGray}
	DeviceRGB  Space = spaceDevice{kind: KindRGB}
	DeviceBGR  Space = spaceDevice{kind: KindBGR}
	DeviceCMYK Space = spaceDevice{kind: KindCMYK}
)

// Kind implements the [Space] interface.
func (s spaceDevice) Kind() Kind {
	return s.kind
}

// Channels implements the [Space] interface.
func (s spaceDevice) Channels() int {
	return modelOf(s.kind).Channels()
}

// Name implements the [Space] interface.
func (s spaceDevice) Name() string {
	return "Device" + s.kind.String()
}

// Flags implements the [Space] interface.
func (s spaceDevice) Flags() Flags {
	if s.kind == KindCMYK {
		return FlagDevice | FlagHasCMYK
	}
	return FlagDevice
}

func (s spaceDevice) isSpace() {}
