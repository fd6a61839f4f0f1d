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

import "sync"

// Options control the behaviour of a [Cache].
// The zero value gives an unbounded cache without a shared budget.
type Options struct {
	// MaxEntries (optional) limits the number of links in the cache.
	MaxEntries int

	// Budget (optional) is shared with other caches of the same rendering
	// context.
	Budget *Budget
}

// Stats holds cache statistics.
type Stats struct {
	Hits      int
	Misses    int
	Builds    int
	Discarded int // builds lost to a concurrent insert for the same key
	Evictions int
	Uncached  int // links returned without being cached, for lack of room
}

// Cache maps transform keys to links.
//
// A Cache is safe for concurrent use.  Links are built outside the cache
// lock; if two goroutines build a link for the same key concurrently, the
// first insert wins and the other link is discarded.
type Cache struct {
	mu          sync.Mutex
	maxEntries  int
	budget      *Budget
	entries     map[Key]*cacheEntry
	first, last *cacheEntry
	stats       Stats
}

type cacheEntry struct {
	prev, next *cacheEntry
	key        Key
	link       *Link
}

// NewCache creates a new link cache.  If opt is nil, default options are
// used.
func NewCache(opt *Options) *Cache {
	if opt == nil {
		opt = &Options{}
	}
	c := &Cache{
		maxEntries: opt.MaxEntries,
		budget:     opt.Budget,
		entries:    make(map[Key]*cacheEntry),
	}
	if c.budget != nil {
		c.budget.register(c)
	}
	return c
}

// FindOrBuild returns a link for the given key.
//
// If the key is in the cache, a new reference to the cached link is
// returned.  Otherwise build is called to construct a new link, which is
// then inserted into the cache.  The build function must return a link
// with a single reference.  The caller must call [Link.Release] on the
// returned link when done.
//
// If the link cannot be cached, for example because the budget is
// exhausted and all cached links are in use, the new link is returned
// without being cached.
func (c *Cache) FindOrBuild(key Key, build func() (*Link, error)) (*Link, error) {
	c.mu.Lock()
	if ent, ok := c.entries[key]; ok {
		c.stats.Hits++
		c.moveToFront(ent)
		l := ent.link.Acquire()
		c.mu.Unlock()
		return l, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	l, err := build()
	if err != nil {
		return nil, err
	}

	reserved := c.budget == nil || c.budget.reserve(l.Weight)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Builds++

	if ent, ok := c.entries[key]; ok {
		// lost the race against a concurrent build
		c.stats.Discarded++
		c.moveToFront(ent)
		if reserved && c.budget != nil {
			c.budget.release(l.Weight)
		}
		l.Release()
		return ent.link.Acquire(), nil
	}

	if !reserved || !c.makeRoom() {
		if reserved && c.budget != nil {
			c.budget.release(l.Weight)
		}
		c.stats.Uncached++
		return l, nil
	}

	ent := &cacheEntry{key: key, link: l.Acquire()}
	c.entries[key] = ent
	c.moveToFront(ent)
	return l, nil
}

// makeRoom evicts links until the entry limit allows one more entry.
func (c *Cache) makeRoom() bool {
	if c.maxEntries <= 0 {
		return true
	}
	for ent := c.last; ent != nil && len(c.entries) >= c.maxEntries; {
		prev := ent.prev
		if ent.link.Refs() == 1 {
			c.remove(ent)
			c.stats.Evictions++
		}
		ent = prev
	}
	return len(c.entries) < c.maxEntries
}

// scavenge evicts unreferenced links, least recently used first, until
// at least need weight units have been released.  It returns the weight
// released.
func (c *Cache) scavenge(need int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var freed int64
	for ent := c.last; ent != nil && freed < need; {
		prev := ent.prev
		if ent.link.Refs() == 1 {
			freed += ent.link.Weight
			c.remove(ent)
			c.stats.Evictions++
		}
		ent = prev
	}
	return freed
}

// Len returns the number of links in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Purge removes all links from the cache.  Links which are still
// referenced by callers stay valid until they are released.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.first != nil {
		c.remove(c.first)
	}
}

// Close purges the cache and detaches it from its budget.
func (c *Cache) Close() {
	c.Purge()
	if c.budget != nil {
		c.budget.unregister(c)
	}
}

// remove deletes ent from the cache and drops the cache's reference.
// The caller must hold c.mu.
func (c *Cache) remove(ent *cacheEntry) {
	delete(c.entries, ent.key)

	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.first = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.last = ent.prev
	}
	ent.prev, ent.next = nil, nil

	if c.budget != nil {
		c.budget.release(ent.link.Weight)
	}
	ent.link.Release()
}

func (c *Cache) moveToFront(ent *cacheEntry) {
	if ent == c.first {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if ent == c.last {
		c.last = ent.prev
	}

	ent.prev = nil
	ent.next = c.first
	if c.first != nil {
		c.first.prev = ent
	}
	c.first = ent
	if c.last == nil {
		c.last = ent
	}
}
