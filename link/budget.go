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
	"sync"

	"golang.org/x/exp/slices"
)

// Budget is a soft memory limit shared between caches.
type Budget struct {
	mu     sync.Mutex
	limit  int64
	used   int64
	caches []*Cache
}

// NewBudget returns a budget with the given limit.
// A limit of zero or less means that the budget is unlimited.
func NewBudget(limit int64) *Budget {
	return &Budget{limit: limit}
}

// Limit returns the budget limit.
func (b *Budget) Limit() int64 {
	return b.limit
}

// Used returns the total weight of the links currently charged to the
// budget.
func (b *Budget) Used() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// reserve tries to charge w to the budget.  If there is not enough room,
// unreferenced links are evicted from all registered caches.
//
// reserve must not be called while holding the lock of a cache.
func (b *Budget) reserve(w int64) bool {
	if b.tryReserve(w) {
		return true
	}

	b.mu.Lock()
	caches := slices.Clone(b.caches)
	need := b.used + w - b.limit
	b.mu.Unlock()

	for _, c := range caches {
		need -= c.scavenge(need)
		if need <= 0 && b.tryReserve(w) {
			return true
		}
	}
	return b.tryReserve(w)
}

func (b *Budget) tryReserve(w int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit > 0 && b.used+w > b.limit {
		return false
	}
	b.used += w
	return true
}

func (b *Budget) release(w int64) {
	b.mu.Lock()
	b.used -= w
	b.mu.Unlock()
}

func (b *Budget) register(c *Cache) {
	b.mu.Lock()
	b.caches = append(b.caches, c)
	b.mu.Unlock()
}

func (b *Budget) unregister(c *Cache) {
	b.mu.Lock()
	if i := slices.Index(b.caches, c); i >= 0 {
		b.caches = slices.Delete(b.caches, i, i+1)
	}
	b.mu.Unlock()
}
