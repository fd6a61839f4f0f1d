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

package convert

import (
	"io"
	"log/slog"
	"sync"

	"seehuhn.de/go/pdfcolor/cmm"
	"seehuhn.de/go/pdfcolor/link"
)

// Options control the behaviour of a [Context].
// The zero value is ready to use.
type Options struct {
	// Engine is used to build profile-based transforms.
	// The default is [cmm.Approximate].
	Engine cmm.Engine

	// Cache holds compiled transforms.  Several contexts may share a cache.
	// If this is nil, a new unbounded cache is used.
	Cache *link.Cache

	// Logger receives reports about degraded conversions.
	// If this is nil, log messages are discarded.
	Logger *slog.Logger
}

// Context holds the state shared by all conversions of one rendering
// context.
type Context struct {
	engine cmm.Engine
	cache  *link.Cache
	logger *slog.Logger

	mu    sync.Mutex
	equiv map[equivKey][]float64
}

// NewContext returns a new conversion context.
// If opt is nil, default options are used.
func NewContext(opt *Options) *Context {
	if opt == nil {
		opt = &Options{}
	}
	c := &Context{
		engine: opt.Engine,
		cache:  opt.Cache,
		logger: opt.Logger,
		equiv:  make(map[equivKey][]float64),
	}
	if c.engine == nil {
		c.engine = cmm.Approximate
	}
	if c.cache == nil {
		c.cache = link.NewCache(nil)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Cache returns the transform cache of the context.
func (c *Context) Cache() *link.Cache {
	return c.cache
}

// Logger returns the logger of the context.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}
