// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

// Flip represents the transformation bits Tiled stores in the top of a global tile id.
type Flip uint32

// Flip flag constants
const (
	FlipHorizontal Flip = 0x80000000
	FlipVertical   Flip = 0x40000000
	FlipDiagonal   Flip = 0x20000000
	FlipHexagonal  Flip = 0x10000000 // 120° rotation on hexagonal maps

	flipMask = uint32(FlipHorizontal | FlipVertical | FlipDiagonal | FlipHexagonal)
)

// Horizontal returns whether the tile is mirrored along the vertical axis
func (f Flip) Horizontal() bool { return f&FlipHorizontal != 0 }

// Vertical returns whether the tile is mirrored along the horizontal axis
func (f Flip) Vertical() bool { return f&FlipVertical != 0 }

// Diagonal returns whether the tile is mirrored along the diagonal
func (f Flip) Diagonal() bool { return f&FlipDiagonal != 0 }

// ParseGID splits a global tile id, as stored in a tile-grid cell, into the
// local tile id of the tileset starting at firstGID and its flip flags. The
// boolean is false for empty cells and ids which belong to a tileset placed
// before firstGID.
func ParseGID(gid, firstGID uint32) (uint32, Flip, bool) {
	flip := Flip(gid & flipMask)
	gid &^= flipMask
	if gid == 0 || gid < firstGID {
		return 0, flip, false
	}

	return gid - firstGID, flip, true
}
