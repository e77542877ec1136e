// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelindar/tileset/internal/manifest"
	"github.com/kelindar/tileset/internal/tsx"
)

// Load reads a catalog file and builds it. The format is selected by the file
// extension: ".tsx" or ".xml" for Tiled tilesets, ".yaml" or ".yml" for
// manifests.
func Load(path string, opts ...Option) (*Catalog, error) {
	src, err := LoadSource(path)
	if err != nil {
		return nil, err
	}

	return Build(src, opts...)
}

// LoadSource reads a catalog file without building it.
func LoadSource(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".xml":
		ts, err := tsx.Open(path)
		if err != nil {
			return Source{}, fmt.Errorf("tileset: %w", err)
		}
		return fromTSX(ts)

	case ".yaml", ".yml":
		m, err := manifest.Open(path)
		if err != nil {
			return Source{}, fmt.Errorf("tileset: %w", err)
		}
		return fromManifest(m)

	default:
		return Source{}, fmt.Errorf("tileset: %w: %s", ErrUnknownFormat, path)
	}
}

// ReadTSX decodes a Tiled tileset.
func ReadTSX(r io.Reader) (Source, error) {
	ts, err := tsx.Decode(r)
	if err != nil {
		return Source{}, fmt.Errorf("tileset: %w", err)
	}
	return fromTSX(ts)
}

// ReadManifest decodes a YAML manifest.
func ReadManifest(r io.Reader) (Source, error) {
	m, err := manifest.Decode(r)
	if err != nil {
		return Source{}, fmt.Errorf("tileset: %w", err)
	}
	return fromManifest(m)
}

// WriteManifest encodes the source as a YAML manifest. Durations are written
// in whole milliseconds, a frame with a finer duration fails with
// ErrInexactDuration.
func WriteManifest(w io.Writer, src Source) error {
	m, err := toManifest(src)
	if err != nil {
		return err
	}

	data, err := manifest.Marshal(m)
	if err != nil {
		return fmt.Errorf("tileset: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// fromTSX converts a decoded Tiled tileset into a source
func fromTSX(ts *tsx.Tileset) (Source, error) {
	src := Source{
		Name:       ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
	}

	var errs []error

	// Atlas tilesets implicitly declare every cell of the shared image
	position := make(map[uint32]int, len(ts.Tiles))
	if ts.Atlas() {
		src.Tiles = make([]TileRecord, 0, ts.TileCount)
		for id := uint32(0); id < uint32(ts.TileCount); id++ {
			position[id] = len(src.Tiles)
			src.Tiles = append(src.Tiles, TileRecord{
				ID:    id,
				Image: Image{Source: ts.Image.Source, Region: ts.Region(id)},
			})
		}
	}

	for _, t := range ts.Tiles {
		pos, ok := position[t.ID]
		if !ok || !ts.Atlas() {
			pos = len(src.Tiles)
			src.Tiles = append(src.Tiles, TileRecord{ID: t.ID})
			if ts.Atlas() {
				src.Tiles[pos].Image = Image{Source: ts.Image.Source, Region: ts.Region(t.ID)}
			}
		}

		rec := &src.Tiles[pos]
		rec.Class = t.ClassName()
		if t.Image != nil {
			w, h := t.Image.Width, t.Image.Height
			if w == 0 || h == 0 {
				w, h = ts.TileWidth, ts.TileHeight
			}
			rec.Image = Image{Source: t.Image.Source, Region: image.Rect(0, 0, w, h)}
		}

		if len(t.Properties) > 0 {
			rec.Properties = make(map[string]string, len(t.Properties))
			for _, p := range t.Properties {
				rec.Properties[p.Name] = p.String()
			}
		}

		if t.Animation != nil {
			frames := make([]Frame, 0, len(t.Animation.Frames))
			for i, f := range t.Animation.Frames {
				frame, err := frameOf(t.ID, i, int64(f.TileID), f.Duration)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				frames = append(frames, frame)
			}
			src.Animations = append(src.Animations, AnimationRecord{Tile: t.ID, Frames: frames})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Source{}, err
	}
	return src, nil
}

// fromManifest converts a decoded manifest into a source
func fromManifest(m *manifest.Manifest) (Source, error) {
	src := Source{
		Name:       m.Name,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		Tiles:      make([]TileRecord, 0, len(m.Tiles)),
	}

	var errs []error
	for _, t := range m.Tiles {
		region := image.Rect(0, 0, m.TileWidth, m.TileHeight)
		if len(t.Region) == 4 {
			x, y, w, h := t.Region[0], t.Region[1], t.Region[2], t.Region[3]
			region = image.Rect(x, y, x+w, y+h)
		}

		src.Tiles = append(src.Tiles, TileRecord{
			ID:         t.ID,
			Image:      Image{Source: t.Image, Region: region},
			Class:      t.Class,
			Properties: t.Properties,
		})

		if t.Animated() {
			frames := make([]Frame, 0, len(t.Frames))
			for i, f := range t.Frames {
				frame, err := frameOf(t.ID, i, f[0], f[1])
				if err != nil {
					errs = append(errs, err)
					continue
				}
				frames = append(frames, frame)
			}
			src.Animations = append(src.Animations, AnimationRecord{Tile: t.ID, Frames: frames})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Source{}, err
	}
	return src, nil
}

// frameOf converts a frame read as a tile id and a duration in milliseconds,
// rejecting values which do not fit a Frame
func frameOf(anchor uint32, index int, tile, ms int64) (Frame, error) {
	switch {
	case tile < 0 || tile > math.MaxUint32:
		return Frame{}, invalid(anchor, index, fmt.Errorf("%w to tile %d", ErrDanglingFrame, tile))
	case ms < 0:
		return Frame{}, invalid(anchor, index, ErrNegativeDuration)
	case ms > math.MaxInt64/int64(time.Millisecond):
		return Frame{}, invalid(anchor, index, fmt.Errorf("%w: %dms", ErrDurationRange, ms))
	default:
		return Frame{Tile: uint32(tile), Duration: time.Duration(ms) * time.Millisecond}, nil
	}
}

// toManifest converts a source into a manifest, attaching every animation
// to the entry of its anchor tile
func toManifest(src Source) (*manifest.Manifest, error) {
	m := &manifest.Manifest{
		Name:       src.Name,
		TileWidth:  src.TileWidth,
		TileHeight: src.TileHeight,
		Tiles:      make([]manifest.Tile, 0, len(src.Tiles)),
	}

	position := make(map[uint32]int, len(src.Tiles))
	nominal := image.Rect(0, 0, src.TileWidth, src.TileHeight)
	for _, t := range src.Tiles {
		entry := manifest.Tile{
			ID:         t.ID,
			Image:      t.Image.Source,
			Class:      t.Class,
			Properties: t.Properties,
		}

		if r := t.Image.Region; r != nominal {
			entry.Region = []int{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
		}

		position[t.ID] = len(m.Tiles)
		m.Tiles = append(m.Tiles, entry)
	}

	for _, a := range src.Animations {
		pos, ok := position[a.Tile]
		if !ok {
			return nil, invalid(a.Tile, -1, ErrUnknownAnchor)
		}

		frames := make([][2]int64, 0, len(a.Frames))
		for i, f := range a.Frames {
			if f.Duration%time.Millisecond != 0 {
				return nil, invalid(a.Tile, i, fmt.Errorf("%w: %v", ErrInexactDuration, f.Duration))
			}
			frames = append(frames, [2]int64{int64(f.Tile), f.Duration.Milliseconds()})
		}
		m.Tiles[pos].Frames = frames
	}

	return m, nil
}
