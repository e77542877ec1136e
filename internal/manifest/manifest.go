// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package manifest reads and writes YAML tileset manifests.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a tileset described in YAML, for example:
//
//	name: galaxy
//	tileWidth: 32
//	tileHeight: 32
//	tiles:
//	  - id: 0
//	    image: sprites/galaxy_0.png
//	    frames: [[0, 200], [1, 200]]
type Manifest struct {
	Name       string `yaml:"name"`
	TileWidth  int    `yaml:"tileWidth"`
	TileHeight int    `yaml:"tileHeight"`
	Tiles      []Tile `yaml:"tiles"`
}

// Tile is a single tile of the manifest. Frames are (tile id, milliseconds)
// pairs, a tile without frames is static.
type Tile struct {
	ID         uint32            `yaml:"id"`
	Image      string            `yaml:"image"`
	Region     []int             `yaml:"region,omitempty"` // x, y, width, height
	Class      string            `yaml:"class,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
	Frames     [][2]int64        `yaml:"frames,omitempty"`
}

// Animated returns whether the tile declares an animation. An explicitly
// empty frame list still counts as a declaration.
func (t *Tile) Animated() bool {
	return t.Frames != nil
}

// Open reads and decodes a manifest file.
func Open(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Unmarshal(data)
}

// Unmarshal decodes a manifest, rejecting unknown fields.
func Unmarshal(data []byte) (*Manifest, error) {
	return Decode(bytes.NewReader(data))
}

// Decode decodes a manifest from the reader, rejecting unknown fields.
func Decode(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	switch err := dec.Decode(&m); {
	case errors.Is(err, io.EOF):
		return &m, nil
	case err != nil:
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	for i, tile := range m.Tiles {
		if len(tile.Region) != 0 && len(tile.Region) != 4 {
			return nil, fmt.Errorf("tile #%d (id %d): region must be [x, y, width, height]", i, tile.ID)
		}
	}

	return &m, nil
}

// Marshal encodes the manifest into YAML.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
