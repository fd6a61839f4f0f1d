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

package float

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		x    float64
		prec int
		want string
	}{
		{0, 4, "0"},
		{1, 4, "1"},
		{0.5, 4, "0.5"},
		{0.12345, 4, "0.1235"},
		{-0.00001, 4, "0"},
		{100, 2, "100"},
		{-12.5, 1, "-12.5"},
		{0.75, 0, "1"},
	}
	for _, c := range cases {
		if got := Format(c.x, c.prec); got != c.want {
			t.Errorf("Format(%g, %d) = %q, want %q", c.x, c.prec, got, c.want)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join([]float64{0, 0.25, 1}, 3)
	if got != "0 0.25 1" {
		t.Errorf("got %q", got)
	}
}
