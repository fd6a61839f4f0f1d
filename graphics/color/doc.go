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

// Package color implements the colour space model of the rendering engine.
//
// Every colour space is represented by a value of type [Space].  Spaces are
// immutable after construction and can be shared freely.  Some spaces don't
// need parameters and can be used directly:
//   - [DeviceGray], [DeviceRGB], [DeviceBGR] and [DeviceCMYK]: the device
//     colour spaces
//   - [LabD50]: CIE 1976 L*a*b* with a D50 white point
//
// Other spaces depend on parameters and are created using generator
// functions:
//   - [Lab]: a calibrated L*a*b* space
//   - [ICCBased]: a space backed by an ICC profile
//   - [Indexed]: a palette-based space over a base space
//   - [Separation] and [DeviceN]: spot colour spaces, with a tint transform
//     into a base space
//
// The device colour spaces of a rendering context can be replaced by
// calibrated spaces using a [Defaults] object.
package color
