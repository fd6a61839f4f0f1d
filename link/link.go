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

package link

import (
	"fmt"
	"sync/atomic"

	"seehuhn.de/go/pdfcolor/cmm"
)

// Key identifies a transform.
type Key struct {
	Src, Dst cmm.Digest

	Intent     cmm.RenderingIntent
	BlackPoint bool

	SrcExtras int
	DstExtras int
	CopySpots bool

	Format cmm.Format

	// Proof is set if the transform simulates a proofing device.
	Proof cmm.Digest

	// BGR is set if the destination uses BGR channel order.
	BGR bool
}

func (k Key) String() string {
	s := fmt.Sprintf("%s->%s/%s", k.Src, k.Dst, k.Intent)
	if k.Proof != (cmm.Digest{}) {
		s += " proof=" + k.Proof.String()
	}
	return s
}

// Link is a reference counted, compiled colour transform.
//
// A new link has one reference, owned by the caller of [New].  Every call
// to [Link.Acquire] must be matched by a call to [Link.Release].
type Link struct {
	Key    Key
	Weight int64

	t    cmm.Transform
	refs atomic.Int32
}

// New returns a link with a single reference.
// The weight is an estimate of the memory used by the transform.
func New(key Key, t cmm.Transform, weight int64) *Link {
	l := &Link{Key: key, Weight: weight, t: t}
	l.refs.Store(1)
	return l
}

// Apply converts a single colour.
func (l *Link) Apply(dst, src []float64) {
	l.t.Apply(dst, src)
}

// Acquire adds a reference to l and returns l.
func (l *Link) Acquire() *Link {
	if l.refs.Add(1) <= 1 {
		panic("link: Acquire on released link")
	}
	return l
}

// Release drops a reference to l.
func (l *Link) Release() {
	if l.refs.Add(-1) < 0 {
		panic("link: too many calls to Release")
	}
}

// Refs returns the current number of references.
func (l *Link) Refs() int {
	return int(l.refs.Load())
}

// Err returns the first error reported by the wrapped transform, if the
// transform implements [cmm.ErrorReporter].
func (l *Link) Err() error {
	if r, ok := l.t.(cmm.ErrorReporter); ok {
		return r.Err()
	}
	return nil
}
