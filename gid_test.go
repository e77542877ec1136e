// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGID(t *testing.T) {
	tests := []struct {
		gid, first uint32
		id         uint32
		flip       Flip
		ok         bool
	}{
		{gid: 0, first: 1, ok: false},
		{gid: 1, first: 1, id: 0, ok: true},
		{gid: 27, first: 1, id: 26, ok: true},
		{gid: 5, first: 10, ok: false},
		{gid: 0x80000003, first: 1, id: 2, flip: FlipHorizontal, ok: true},
		{gid: 0x60000010, first: 1, id: 15, flip: FlipVertical | FlipDiagonal, ok: true},
		{gid: 0x80000000, first: 1, flip: FlipHorizontal, ok: false},
	}

	for _, tc := range tests {
		id, flip, ok := ParseGID(tc.gid, tc.first)
		assert.Equal(t, tc.ok, ok, "gid %#x", tc.gid)
		assert.Equal(t, tc.flip, flip, "gid %#x", tc.gid)
		if tc.ok {
			assert.Equal(t, tc.id, id, "gid %#x", tc.gid)
		}
	}
}

func TestFlip(t *testing.T) {
	f := FlipHorizontal | FlipDiagonal
	assert.True(t, f.Horizontal())
	assert.False(t, f.Vertical())
	assert.True(t, f.Diagonal())
}

func TestParseGID_Resolve(t *testing.T) {
	c, err := Build(testSource())
	if !assert.NoError(t, err) {
		return
	}

	// A flipped cell of a tileset placed at firstgid 11
	id, flip, ok := ParseGID(11|uint32(FlipVertical), 11)
	assert.True(t, ok)
	assert.True(t, flip.Vertical())

	img, err := c.Resolve(id, ms(450))
	assert.NoError(t, err)
	assert.Equal(t, "tile_2.png", img.Source)
}
