// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fixture "github.com/kelindar/tileset/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Galaxy(t *testing.T) {
	c, err := Load(fixture.Galaxy(), WithStrictChains())
	require.NoError(t, err)

	assert.Equal(t, "Tileset", c.Name())
	assert.Equal(t, image.Pt(32, 32), c.TileSize())
	assert.Equal(t, 26, c.Len())

	cycles := map[uint32]int{}
	for a := range c.Animations() {
		cycles[a.Anchor()] = int(a.Cycle().Milliseconds())
	}
	assert.Equal(t, map[uint32]int{0: 800, 4: 1000, 9: 800, 15: 1100}, cycles)

	tile, ok := c.Tile(0)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 32, 32), tile.Image.Region)

	tests := []struct {
		tile   uint32
		at     int
		source string
	}{
		{0, 0, "sprites/Galaxy_Tile_1/sprite_2.png"},
		{0, 200, "sprites/Galaxy_Tile_1/sprite_3.png"},
		{0, 1999, "sprites/Galaxy_Tile_1/sprite_3.png"},
		{15, 1099, "sprites/Galaxy_Tile_6/sprite_05.png"},
		{15, 1100, "sprites/Galaxy_Tile_6/sprite_06.png"},
		{13, 5000, "sprites/Galaxy_Tile_4/sprite_0.png"},
	}

	for _, tc := range tests {
		img, err := c.Resolve(tc.tile, ms(tc.at))
		assert.NoError(t, err)
		assert.Equal(t, tc.source, img.Source, "tile %d at %dms", tc.tile, tc.at)
	}

	anim, ok := c.Animation(15)
	require.True(t, ok)
	assert.Equal(t, 10, anim.FrameAt(ms(1099)))
	assert.Equal(t, 0, anim.FrameAt(ms(1100)))
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := Load("tiles.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tsx"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Manifest(t *testing.T) {
	const doc = `
name: water
tileWidth: 16
tileHeight: 16
tiles:
  - id: 0
    image: water.png
    region: [0, 0, 16, 16]
    frames: [[0, 150], [1, 150]]
  - id: 1
    image: water.png
    region: [16, 0, 16, 16]
`
	path := filepath.Join(t.TempDir(), "water.yml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	img, err := c.Resolve(0, ms(160))
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(16, 0, 32, 16), img.Region)
}

func TestReadManifest_Invalid(t *testing.T) {
	_, err := ReadManifest(strings.NewReader("tiles: ["))
	assert.Error(t, err)

	// Empty frame lists are declarations of an empty animation
	src, err := ReadManifest(strings.NewReader("tiles:\n  - id: 0\n    image: a.png\n    frames: []\n"))
	require.NoError(t, err)
	_, err = Build(src)
	assert.ErrorIs(t, err, ErrEmptyAnimation)
}

func TestWriteManifest(t *testing.T) {
	src, err := LoadSource(fixture.Galaxy())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, src))
	assert.NotContains(t, buf.String(), "region")

	out, err := ReadManifest(&buf)
	require.NoError(t, err)

	before, err := Build(src)
	require.NoError(t, err)
	after, err := Build(out)
	require.NoError(t, err)

	for tile := range before.Tiles() {
		for at := 0; at < 2200; at += 50 {
			want, _ := before.Resolve(tile.ID, ms(at))
			got, err := after.Resolve(tile.ID, ms(at))
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestWriteManifest_UnknownAnchor(t *testing.T) {
	src := testSource()
	src.Animations[0].Tile = 77

	err := WriteManifest(&bytes.Buffer{}, src)
	assert.ErrorIs(t, err, ErrUnknownAnchor)
}

func TestReadTSX_Atlas(t *testing.T) {
	const doc = `<tileset name="lava" tilewidth="8" tileheight="8" columns="2" tilecount="4">
 <image source="lava.png" width="16" height="16"/>
 <tile id="1" type="hazard">
  <properties><property name="damage" value="3"/></properties>
  <animation>
   <frame tileid="1" duration="100"/>
   <frame tileid="3" duration="100"/>
  </animation>
 </tile>
</tileset>`

	src, err := ReadTSX(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, src.Tiles, 4)
	assert.Equal(t, "hazard", src.Tiles[1].Class)
	assert.Equal(t, "3", src.Tiles[1].Properties["damage"])

	c, err := Build(src)
	require.NoError(t, err)

	img, err := c.Resolve(1, ms(100))
	assert.NoError(t, err)
	assert.Equal(t, "lava.png", img.Source)
	assert.Equal(t, image.Rect(8, 8, 16, 16), img.Region)

	_, err = ReadTSX(strings.NewReader("<tileset"))
	assert.Error(t, err)
}

func TestReadManifest_FrameRange(t *testing.T) {
	tests := []struct {
		frame string
		want  error
	}{
		{"[4294967297, 100]", ErrDanglingFrame},
		{"[-1, 100]", ErrDanglingFrame},
		{"[1, -100]", ErrNegativeDuration},
		{"[1, 9223372036854775807]", ErrDurationRange},
	}

	for _, tc := range tests {
		doc := "tiles:\n  - id: 0\n    image: a.png\n    frames: [" + tc.frame + "]\n" +
			"  - id: 1\n    image: b.png\n"

		src, err := ReadManifest(strings.NewReader(doc))
		assert.ErrorIs(t, err, tc.want, tc.frame)
		assert.Empty(t, src.Tiles, tc.frame)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tc.frame)
		assert.Equal(t, uint32(0), verr.Tile)
		assert.Equal(t, 0, verr.Frame)
	}
}

func TestReadTSX_FrameRange(t *testing.T) {
	const doc = `<tileset name="t" tilewidth="8" tileheight="8">
 <tile id="0">
  <image source="a.png" width="8" height="8"/>
  <animation><frame tileid="0" duration="-5"/></animation>
 </tile>
</tileset>`

	_, err := ReadTSX(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestWriteManifest_InexactDuration(t *testing.T) {
	src := testSource()
	src.Animations[0].Frames[1].Duration = 500 * time.Microsecond

	// The source is valid, but cannot be written in whole milliseconds
	_, err := Build(src)
	require.NoError(t, err)

	err = WriteManifest(&bytes.Buffer{}, src)
	assert.ErrorIs(t, err, ErrInexactDuration)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, uint32(0), verr.Tile)
	assert.Equal(t, 1, verr.Frame)
}

func TestWriteManifest_RoundTrip(t *testing.T) {
	src := testSource()

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, src))

	out, err := ReadManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Animations, out.Animations)

	_, err = Build(out)
	assert.NoError(t, err)
}
