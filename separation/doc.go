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

// Package separation implements lists of named inks.
//
// A [Separations] value describes the spot colour plates of a pixel buffer.
// Each entry has a name, an activation state and a description of the
// colour the ink should be rendered as when it cannot be kept as a separate
// plate.  Only inks in the [Spot] state are carried as channels of a pixel
// buffer, see [Separations.ActiveSpots].
package separation
