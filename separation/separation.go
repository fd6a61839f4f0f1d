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

package separation

import (
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/pdfcolor"
	"seehuhn.de/go/pdfcolor/graphics/color"
)

// MaxInks is the maximum number of entries of a [Separations] list.
const MaxInks = 32

// State is the activation state of an ink.
type State uint8

// These are the possible ink states.
const (
	// Composite inks are merged into the process channels.
	Composite State = iota

	// Spot inks are kept as a separate plate.
	Spot

	// Disabled inks are not rendered at all.
	Disabled
)

func (s State) String() string {
	switch s {
	case Composite:
		return "composite"
	case Spot:
		return "spot"
	case Disabled:
		return "disabled"
	default:
		return "invalid state"
	}
}

// Equivalent describes the process colour used to render an ink.
//
// If Space is non-nil, the equivalent colour is the colour of full ink on
// colorant Index of Space.  Otherwise RGB and CMYK give precomputed
// equivalents for additive and subtractive destinations.
type Equivalent struct {
	Space color.Space
	Index int

	RGB  [3]float64
	CMYK [4]float64
}

// ColorantEquivalent returns the equivalent for colorant i of s.
func ColorantEquivalent(s color.Space, i int) Equivalent {
	return Equivalent{Space: s, Index: i}
}

// ProcessEquivalent returns an equivalent given by precomputed RGB and CMYK
// values.
func ProcessEquivalent(rgb [3]float64, cmyk [4]float64) Equivalent {
	return Equivalent{RGB: rgb, CMYK: cmyk}
}

var lastID atomic.Uint64

// Separations is an ordered list of named inks.
//
// The methods of Separations are not safe for concurrent use.
type Separations struct {
	id     uint64
	gen    uint64
	names  []string
	keys   []string // NFC normalised names
	equiv  []Equivalent
	states *bitset.BitSet // 2 bits per ink
	hooks  []func()
}

// New returns an empty list of inks.
func New() *Separations {
	return &Separations{
		id:     lastID.Add(1),
		states: bitset.New(2 * MaxInks),
	}
}

// Add appends a new ink in the [Spot] state and returns its index.
func (s *Separations) Add(name string, equiv Equivalent) (int, error) {
	if len(s.names) >= MaxInks {
		return 0, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Separations.Add",
			"too many inks (max %d)", MaxInks)
	}
	if name == "" {
		return 0, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Separations.Add",
			"missing ink name")
	}
	if equiv.Space != nil {
		if _, err := color.ColorantName(equiv.Space, equiv.Index); err != nil {
			return 0, err
		}
	}
	key := norm.NFC.String(name)
	if slices.Contains(s.keys, key) {
		return 0, pdfcolor.Errorf(pdfcolor.InvalidArgument, "Separations.Add",
			"duplicate ink %q", name)
	}

	i := len(s.names)
	s.names = append(s.names, name)
	s.keys = append(s.keys, key)
	s.equiv = append(s.equiv, equiv)
	s.setState(i, Spot)
	s.changed()
	return i, nil
}

// Len returns the number of inks.
func (s *Separations) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Name returns the name of ink i.
func (s *Separations) Name(i int) string {
	return s.names[i]
}

// Equivalent returns the equivalent colour descriptor of ink i.
func (s *Separations) Equivalent(i int) Equivalent {
	return s.equiv[i]
}

// SetEquivalent changes the equivalent colour descriptor of ink i.
func (s *Separations) SetEquivalent(i int, equiv Equivalent) {
	s.equiv[i] = equiv
	s.changed()
}

// State returns the activation state of ink i.
func (s *Separations) State(i int) State {
	var st State
	if s.states.Test(uint(2 * i)) {
		st |= 1
	}
	if s.states.Test(uint(2*i + 1)) {
		st |= 2
	}
	return st
}

// SetState changes the activation state of ink i.
// Changing the state invalidates all data derived from the old state.
func (s *Separations) SetState(i int, st State) error {
	if i < 0 || i >= len(s.names) {
		return pdfcolor.Errorf(pdfcolor.OutOfRange, "Separations.SetState",
			"ink %d out of range", i)
	}
	if st > Disabled {
		return pdfcolor.Errorf(pdfcolor.InvalidArgument, "Separations.SetState",
			"invalid state %d", st)
	}
	if s.State(i) == st {
		return nil
	}
	s.setState(i, st)
	s.changed()
	return nil
}

func (s *Separations) setState(i int, st State) {
	s.states.SetTo(uint(2*i), st&1 != 0)
	s.states.SetTo(uint(2*i+1), st&2 != 0)
}

// Index returns the index of the ink with the given name, or -1 if there
// is no such ink.  Names are compared after NFC normalisation.
func (s *Separations) Index(name string) int {
	if s == nil {
		return -1
	}
	return slices.Index(s.keys, norm.NFC.String(name))
}

// ActiveSpots returns the indices of all inks in the [Spot] state, in
// order.  These inks form the spot channels of a pixel buffer.
func (s *Separations) ActiveSpots() []int {
	if s == nil {
		return nil
	}
	var res []int
	for i := range s.names {
		if s.State(i) == Spot {
			res = append(res, i)
		}
	}
	return res
}

// ID returns a number which identifies s during the lifetime of the
// process.  Clones have different IDs.
func (s *Separations) ID() uint64 {
	return s.id
}

// Generation returns a counter which changes whenever the list of inks,
// an ink state or an equivalent colour changes.
func (s *Separations) Generation() uint64 {
	return s.gen
}

// OnChange registers a function which is called after every change.
func (s *Separations) OnChange(fn func()) {
	s.hooks = append(s.hooks, fn)
}

func (s *Separations) changed() {
	s.gen++
	for _, fn := range s.hooks {
		fn()
	}
}

// Clone returns an independent copy of s.  Change hooks are not copied.
func (s *Separations) Clone() *Separations {
	if s == nil {
		return nil
	}
	return &Separations{
		id:     lastID.Add(1),
		names:  slices.Clone(s.names),
		keys:   slices.Clone(s.keys),
		equiv:  slices.Clone(s.equiv),
		states: s.states.Clone(),
	}
}

// SameInks reports whether a and b carry the same spot channels, i.e.
// whether their active spots have the same names in the same order.
// A nil list has no spots.
func SameInks(a, b *Separations) bool {
	as := a.ActiveSpots()
	bs := b.ActiveSpots()
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if a.keys[as[k]] != b.keys[bs[k]] {
			return false
		}
	}
	return true
}
