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

// Package pixmap implements pixel buffers and their conversion between
// colour spaces.
//
// A [Pixmap] stores interleaved 8-bit samples.  Each pixel consists of the
// process colour channels of the pixmap's colour space, followed by one
// channel per active spot ink, followed by an optional alpha channel.
// When a pixmap has alpha, colour and spot samples are premultiplied.
//
// [Convert] converts a pixmap into another colour space, choosing one of
// several strategies based on the size and layout of the buffer.  If the
// spot inks of the source and destination differ, inks missing from the
// destination are merged into its process channels.
package pixmap
