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

// Package link implements a cache for colour transforms.
//
// Building a profile-based transform is expensive.  A [Cache] maps the
// parameters of a transform, collected in a [Key], to a reference counted
// [Link] wrapping the compiled transform.  Several caches can share a
// memory [Budget]; when the budget is exhausted, links which are not in use
// outside the cache are evicted.
package link
