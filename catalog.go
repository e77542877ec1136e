// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/kelindar/intmap"
)

// Image is an opaque reference to a drawable image region. The rendering
// side decides what Source means (a path, a texture key, ...).
type Image struct {
	Source string          // Image handle, typically a path relative to the catalog
	Region image.Rectangle // Drawable region within the source image
}

// Width returns the declared width of the image region.
func (img Image) Width() int {
	return img.Region.Dx()
}

// Height returns the declared height of the image region.
func (img Image) Height() int {
	return img.Region.Dy()
}

// Tile is a single addressable image unit of a catalog.
type Tile struct {
	ID         uint32            // Unique id within the catalog
	Image      Image             // Static image of the tile
	Class      string            // Optional user-defined class of the tile
	Properties map[string]string // Optional user-defined properties
	anim       int32             // Index of the owned animation, or -1
}

// Animated returns whether the tile owns an animation.
func (t Tile) Animated() bool {
	return t.anim >= 0
}

// detach returns a copy of the tile which shares no memory with the catalog
func (t Tile) detach() Tile {
	t.Properties = maps.Clone(t.Properties)
	return t
}

// TileRecord is the raw description of a tile, as produced by a loader.
type TileRecord struct {
	ID         uint32
	Image      Image
	Class      string
	Properties map[string]string
}

// AnimationRecord is the raw description of an animation, as produced by a loader.
type AnimationRecord struct {
	Tile   uint32  // Anchor tile that owns the animation
	Frames []Frame // Frames in playback order
}

// Source is the raw, not yet validated content of a catalog.
type Source struct {
	Name       string
	TileWidth  int
	TileHeight int
	Tiles      []TileRecord
	Animations []AnimationRecord
}

// ---------------------------------- Catalog ----------------------------------

// Catalog is an immutable collection of tiles and their animations. It is
// safe for concurrent use once built.
type Catalog struct {
	name   string
	size   image.Point  // Nominal tile size
	tiles  []Tile       // Tiles in declaration order
	anims  []*Animation // Animations, referenced by Tile.anim
	index  *intmap.Map  // Tile id to position in tiles
	issues []error      // Non-fatal problems found during build
}

// Build validates the source and creates an immutable catalog out of it. If
// any problem is found, no catalog is returned and the error joins every
// *ValidationError encountered.
func Build(src Source, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)
	c := &Catalog{
		name:  src.Name,
		size:  image.Pt(src.TileWidth, src.TileHeight),
		tiles: make([]Tile, 0, len(src.Tiles)),
		anims: make([]*Animation, 0, len(src.Animations)),
		index: intmap.New(max(len(src.Tiles), 16), .95),
	}

	var errs []error
	for _, rec := range src.Tiles {
		if _, ok := c.index.Load(rec.ID); ok {
			errs = append(errs, invalid(rec.ID, -1, ErrDuplicateTile))
			continue
		}

		c.index.Store(rec.ID, uint32(len(c.tiles)))
		c.tiles = append(c.tiles, Tile{
			ID:         rec.ID,
			Image:      rec.Image,
			Class:      rec.Class,
			Properties: maps.Clone(rec.Properties),
			anim:       -1,
		})
	}

	for _, rec := range src.Animations {
		idx, ok := c.index.Load(rec.Tile)
		switch {
		case !ok:
			errs = append(errs, invalid(rec.Tile, -1, ErrUnknownAnchor))
			continue
		case c.tiles[idx].anim >= 0:
			errs = append(errs, invalid(rec.Tile, -1, ErrDuplicateAnimation))
			continue
		}

		if problems := c.validate(rec); len(problems) > 0 {
			errs = append(errs, problems...)
			continue
		}

		c.tiles[idx].anim = int32(len(c.anims))
		c.anims = append(c.anims, newAnimation(rec.Tile, rec.Frames))
	}

	// Chains can only be detected once every animation is attached
	for _, a := range c.anims {
		err := c.chained(a)
		switch {
		case err == nil:
			continue
		case o.strictChains:
			errs = append(errs, err)
		default:
			a.err = err
			c.issues = append(c.issues, err)
			o.logger.Warn("tileset: animation disabled",
				slog.String("catalog", c.name),
				slog.Any("tile", a.anchor),
				slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return c, nil
}

// validate checks the frames of an animation record
func (c *Catalog) validate(rec AnimationRecord) (errs []error) {
	if len(rec.Frames) == 0 {
		return []error{invalid(rec.Tile, -1, ErrEmptyAnimation)}
	}

	visible := false
	for i, f := range rec.Frames {
		if _, ok := c.index.Load(f.Tile); !ok {
			errs = append(errs, invalid(rec.Tile, i,
				fmt.Errorf("%w to tile %d", ErrDanglingFrame, f.Tile)))
		}

		switch {
		case f.Duration < 0:
			errs = append(errs, invalid(rec.Tile, i,
				fmt.Errorf("%w: %v", ErrNegativeDuration, f.Duration)))
		case f.Duration > 0:
			visible = true
		}
	}

	if !visible && len(errs) == 0 {
		errs = append(errs, invalid(rec.Tile, -1, ErrDegenerateAnimation))
	}
	return
}

// chained returns an error if a frame of the animation targets another tile
// which owns an animation itself. Targeting the anchor is allowed.
func (c *Catalog) chained(a *Animation) error {
	for i, f := range a.frames {
		if f.Tile == a.anchor {
			continue
		}

		if idx, _ := c.index.Load(f.Tile); c.tiles[idx].anim >= 0 {
			return invalid(a.anchor, i,
				fmt.Errorf("%w through tile %d", ErrChainedAnimation, f.Tile))
		}
	}
	return nil
}

// Name returns the name of the catalog.
func (c *Catalog) Name() string {
	return c.name
}

// TileSize returns the nominal tile size declared by the catalog.
func (c *Catalog) TileSize() image.Point {
	return c.size
}

// Len returns the number of tiles in the catalog.
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// Issues returns the non-fatal problems found while building the catalog.
func (c *Catalog) Issues() []error {
	return slices.Clone(c.issues)
}

// Tile returns a tile by its id. The returned tile is a copy, changing its
// properties does not affect the catalog.
func (c *Catalog) Tile(id uint32) (Tile, bool) {
	idx, ok := c.index.Load(id)
	if !ok {
		return Tile{}, false
	}
	return c.tiles[idx].detach(), true
}

// Animation returns the animation owned by a tile, if any. A disabled
// animation is still returned, check its Err method.
func (c *Catalog) Animation(id uint32) (*Animation, bool) {
	idx, ok := c.index.Load(id)
	if !ok || c.tiles[idx].anim < 0 {
		return nil, false
	}
	return c.anims[c.tiles[idx].anim], true
}

// Tiles returns an iterator over all tiles, in declaration order.
func (c *Catalog) Tiles() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		for _, t := range c.tiles {
			if !yield(t.detach()) {
				return
			}
		}
	}
}

// Animations returns an iterator over all animations, including disabled ones.
func (c *Catalog) Animations() iter.Seq[*Animation] {
	return func(yield func(*Animation) bool) {
		for _, a := range c.anims {
			if !yield(a) {
				return
			}
		}
	}
}
