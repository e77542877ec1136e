// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"errors"
	"fmt"
)

// Load-time errors, each reported wrapped in a *ValidationError.
var (
	ErrDuplicateTile       = errors.New("duplicate tile id")
	ErrDanglingFrame       = errors.New("dangling frame reference")
	ErrEmptyAnimation      = errors.New("empty animation")
	ErrDegenerateAnimation = errors.New("degenerate animation")
	ErrNegativeDuration    = errors.New("negative frame duration")
	ErrDurationRange       = errors.New("frame duration out of range")
	ErrUnknownAnchor       = errors.New("animation anchored on unknown tile")
	ErrDuplicateAnimation  = errors.New("duplicate animation")
	ErrChainedAnimation    = errors.New("chained animation")
)

// Query-time errors
var (
	ErrNotFound      = errors.New("tile not found")
	ErrNegativeDelta = errors.New("negative time delta")
	ErrUnknownFormat = errors.New("unknown catalog format")
)

// ErrInexactDuration is returned when a source cannot be written to a manifest
// without losing precision.
var ErrInexactDuration = errors.New("frame duration is not a whole number of milliseconds")

// ValidationError describes a problem with a single tile or animation found
// while building a catalog.
type ValidationError struct {
	Tile  uint32 // Offending tile, the anchor for animation problems
	Frame int    // Offending frame index, or -1
	Err   error  // Underlying cause, one of the Err* sentinels
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("tileset: tile %d: %v", e.Tile, e.Err)
	}
	return fmt.Sprintf("tileset: tile %d frame %d: %v", e.Tile, e.Frame, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// invalid creates a validation error for a tile
func invalid(tile uint32, frame int, err error) *ValidationError {
	return &ValidationError{Tile: tile, Frame: frame, Err: err}
}
