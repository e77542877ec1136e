// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Resolver resolves a tile id to the image visible at a given elapsed time.
type Resolver interface {
	Resolve(id uint32, elapsed time.Duration) (Image, error)
}

var (
	_ Resolver = (*Catalog)(nil)
	_ Resolver = (*Lookup)(nil)
)

// Resolve returns the image to draw for a tile at the given elapsed time. For
// a static tile this is its own image, for an animated tile it is the image
// of the tile shown by the active frame. A disabled animation resolves to the
// static image of its anchor.
func (c *Catalog) Resolve(id uint32, elapsed time.Duration) (Image, error) {
	idx, ok := c.index.Load(id)
	if !ok {
		return Image{}, fmt.Errorf("tileset: %w: %d", ErrNotFound, id)
	}

	tile := &c.tiles[idx]
	if tile.anim < 0 {
		return tile.Image, nil
	}

	anim := c.anims[tile.anim]
	if anim.err != nil {
		return tile.Image, nil
	}

	// Frame targets were validated at build, so this lookup cannot miss
	target, _ := c.index.Load(anim.TileAt(elapsed))
	return c.tiles[target].Image, nil
}

// ---------------------------------- Lookup ----------------------------------

// Lookup combines the current catalog with the animation clock. The catalog
// can be swapped at any time (e.g. for live asset reloads) without disturbing
// resolutions already in flight.
type Lookup struct {
	catalog     atomic.Pointer[Catalog]
	clock       *Clock
	placeholder Image
	logger      *slog.Logger
}

// NewLookup creates a new lookup over the catalog, driven by the clock.
func NewLookup(catalog *Catalog, clock *Clock, opts ...Option) *Lookup {
	o := newOptions(opts)
	l := &Lookup{
		clock:       clock,
		placeholder: o.placeholder,
		logger:      o.logger,
	}

	l.catalog.Store(catalog)
	return l
}

// Catalog returns the current catalog.
func (l *Lookup) Catalog() *Catalog {
	return l.catalog.Load()
}

// Clock returns the clock driving the lookup.
func (l *Lookup) Clock() *Clock {
	return l.clock
}

// Swap atomically replaces the catalog and returns the previous one.
func (l *Lookup) Swap(catalog *Catalog) *Catalog {
	return l.catalog.Swap(catalog)
}

// Resolve resolves a tile against the current catalog at the given time.
func (l *Lookup) Resolve(id uint32, elapsed time.Duration) (Image, error) {
	return l.At(elapsed).Resolve(id)
}

// View takes a snapshot of the current catalog and clock. It should be taken
// once per tick and shared by every resolution of that tick.
func (l *Lookup) View() View {
	return l.At(l.clock.Elapsed())
}

// At takes a snapshot of the current catalog at an explicit elapsed time.
func (l *Lookup) At(elapsed time.Duration) View {
	return View{
		catalog: l.catalog.Load(),
		elapsed: elapsed,
		lookup:  l,
	}
}

// ----------------------------------- View -----------------------------------

// View is a read-only snapshot of a catalog at a fixed point in time. It is
// a small value, safe to copy and to use from many goroutines.
type View struct {
	catalog *Catalog
	elapsed time.Duration
	lookup  *Lookup
}

// Elapsed returns the time the view was taken at.
func (v View) Elapsed() time.Duration {
	return v.elapsed
}

// Catalog returns the catalog the view resolves against.
func (v View) Catalog() *Catalog {
	return v.catalog
}

// Resolve returns the image to draw for a tile, or ErrNotFound.
func (v View) Resolve(id uint32) (Image, error) {
	if v.catalog == nil {
		return Image{}, fmt.Errorf("tileset: %w: %d (no catalog)", ErrNotFound, id)
	}
	return v.catalog.Resolve(id, v.elapsed)
}

// Image returns the image to draw for a tile. Missing tiles never fail, they
// resolve to the placeholder image and are logged.
func (v View) Image(id uint32) Image {
	img, err := v.Resolve(id)
	if err != nil {
		v.lookup.logger.Debug("tileset: using placeholder",
			slog.Any("tile", id),
			slog.Any("error", err))
		return v.lookup.placeholder
	}
	return img
}
