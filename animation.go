// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"iter"
	"slices"
	"time"
)

// Frame is a single step of an animation: the tile to show and for how long.
type Frame struct {
	Tile     uint32        // Tile shown during this frame
	Duration time.Duration // How long the frame is shown, zero-length frames are skipped
}

// Animation is an immutable, looping sequence of frames owned by an anchor tile.
type Animation struct {
	anchor uint32          // Tile that owns the animation
	frames []Frame         // Frames in playback order
	ends   []time.Duration // Cumulative end offset of each frame within the cycle
	cycle  time.Duration   // Sum of all frame durations
	err    error           // Non-nil if the animation was disabled during build
}

// newAnimation creates an animation and precomputes its offset table. The
// frames must already be validated.
func newAnimation(anchor uint32, frames []Frame) *Animation {
	a := &Animation{
		anchor: anchor,
		frames: slices.Clone(frames),
		ends:   make([]time.Duration, len(frames)),
	}

	for i, f := range a.frames {
		a.cycle += f.Duration
		a.ends[i] = a.cycle
	}
	return a
}

// Anchor returns the id of the tile that owns this animation.
func (a *Animation) Anchor() uint32 {
	return a.anchor
}

// Len returns the number of frames, including zero-length ones.
func (a *Animation) Len() int {
	return len(a.frames)
}

// Cycle returns the period of the animation.
func (a *Animation) Cycle() time.Duration {
	return a.cycle
}

// Frame returns the frame at the given index, or false if it is out of range.
func (a *Animation) Frame(index int) (Frame, bool) {
	if index < 0 || index >= len(a.frames) {
		return Frame{}, false
	}
	return a.frames[index], true
}

// Frames returns an iterator over the frames in playback order.
func (a *Animation) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for _, f := range a.frames {
			if !yield(f) {
				return
			}
		}
	}
}

// Err returns the reason this animation was disabled, or nil if it plays.
func (a *Animation) Err() error {
	return a.err
}

// FrameAt returns the index of the frame visible after the given elapsed time.
// The result depends only on its arguments, so it is safe to call concurrently
// for any number of tile instances. Negative elapsed time is treated as zero.
func (a *Animation) FrameAt(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}

	// The active frame is the first one ending strictly after the phase. Zero
	// length frames end where their predecessor ends, so they are never chosen.
	phase := elapsed % a.cycle
	index, _ := slices.BinarySearch(a.ends, phase+1)
	return index
}

// TileAt returns the id of the tile visible after the given elapsed time.
func (a *Animation) TileAt(elapsed time.Duration) uint32 {
	return a.frames[a.FrameAt(elapsed)].Tile
}
