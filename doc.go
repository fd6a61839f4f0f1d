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

// Package pdfcolor converts colours and pixel buffers between PDF colour
// spaces.
//
// The colour space model lives in the [seehuhn.de/go/pdfcolor/graphics/color]
// package.  Single colours are converted using a
// [seehuhn.de/go/pdfcolor/convert.Converter], whole pixel buffers using
// [seehuhn.de/go/pdfcolor/pixmap.Convert].  Expensive profile-based
// transforms are shared through a [seehuhn.de/go/pdfcolor/link.Cache].
//
// This package only defines the error values shared by all sub-packages.
package pdfcolor
