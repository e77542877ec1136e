// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package tsx decodes Tiled tileset files (.tsx).
package tsx

import (
	"encoding/xml"
	"fmt"
	"image"
	"io"

	"codeberg.org/go-mmap/mmap"
)

// Tileset mirrors the <tileset> element of a Tiled tileset file.
type Tileset struct {
	XMLName    xml.Name `xml:"tileset"`
	Name       string   `xml:"name,attr"`
	TileWidth  int      `xml:"tilewidth,attr"`
	TileHeight int      `xml:"tileheight,attr"`
	TileCount  int      `xml:"tilecount,attr"`
	Columns    int      `xml:"columns,attr"`
	Spacing    int      `xml:"spacing,attr"`
	Margin     int      `xml:"margin,attr"`
	Image      *Image   `xml:"image"` // Set for atlas tilesets only
	Tiles      []Tile   `xml:"tile"`
}

// Image mirrors an <image> element.
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// Tile mirrors a <tile> element.
type Tile struct {
	ID         uint32     `xml:"id,attr"`
	Type       string     `xml:"type,attr"`  // Tiled 1.8 and older
	Class      string     `xml:"class,attr"` // Tiled 1.9 and newer
	Image      *Image     `xml:"image"`
	Properties []Property `xml:"properties>property"`
	Animation  *Animation `xml:"animation"`
}

// Property mirrors a <property> element. Multi-line values are stored as
// the element text instead of the value attribute.
type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

// Animation mirrors an <animation> element.
type Animation struct {
	Frames []Frame `xml:"frame"`
}

// Frame mirrors a <frame> element, the duration is in milliseconds.
type Frame struct {
	TileID   uint32 `xml:"tileid,attr"`
	Duration int64  `xml:"duration,attr"`
}

// Open maps a tileset file into memory and decodes it.
func Open(path string) (*Tileset, error) {
	file, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tileset: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode decodes a tileset from the reader.
func Decode(r io.Reader) (*Tileset, error) {
	var ts Tileset
	if err := xml.NewDecoder(r).Decode(&ts); err != nil {
		return nil, fmt.Errorf("failed to decode tileset: %w", err)
	}

	if ts.Image != nil {
		if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
			return nil, fmt.Errorf("invalid tile size %dx%d for atlas tileset",
				ts.TileWidth, ts.TileHeight)
		}

		// Older files may omit the derived attributes, compute them like Tiled does
		if ts.Columns == 0 {
			ts.Columns = cells(ts.Image.Width, ts.TileWidth, ts.Margin, ts.Spacing)
		}
		if ts.TileCount == 0 {
			ts.TileCount = ts.Columns * cells(ts.Image.Height, ts.TileHeight, ts.Margin, ts.Spacing)
		}
	}

	return &ts, nil
}

// Atlas returns whether every tile is a region of a single shared image.
func (ts *Tileset) Atlas() bool {
	return ts.Image != nil
}

// Region returns the region of the shared image covered by a tile of an
// atlas tileset.
func (ts *Tileset) Region(id uint32) image.Rectangle {
	if ts.Columns <= 0 {
		return image.Rectangle{}
	}

	col, row := int(id)%ts.Columns, int(id)/ts.Columns
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// ClassName returns the class of the tile, whichever attribute carries it.
func (t *Tile) ClassName() string {
	if t.Class != "" {
		return t.Class
	}
	return t.Type
}

// String returns the value of the property.
func (p Property) String() string {
	if p.Value == "" {
		return p.Text
	}
	return p.Value
}

// cells returns how many tiles fit along one side of an image
func cells(length, tile, margin, spacing int) int {
	if tile+spacing <= 0 {
		return 0
	}
	return max(0, (length-2*margin+spacing)/(tile+spacing))
}
