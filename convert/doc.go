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

// Package convert builds colour conversion pipelines for single colours.
//
// A [Context] holds the collaborators needed for colour conversion: the
// colour management engine, the transform cache and a logger.  Contexts
// are created once per rendering context and passed explicitly to every
// conversion.
//
// A [Converter] converts one colour at a time between two colour spaces.
// Indexed and Separation source spaces are resolved by converting through
// their base space first; the resulting chain of steps can be inspected
// using [Converter.Steps].
package convert
