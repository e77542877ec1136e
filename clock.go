// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Clock accumulates elapsed simulation time which drives every animation.
// It is advanced by a single owner once per tick, while any number of readers
// may take snapshots concurrently. Time is kept as a time.Duration, which
// covers roughly 292 years before overflowing.
type Clock struct {
	elapsed atomic.Int64
}

// NewClock creates a new clock starting at zero.
func NewClock() *Clock {
	return new(Clock)
}

// Elapsed returns a snapshot of the accumulated time.
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.elapsed.Load())
}

// Advance moves the clock forward by the given delta. A negative delta is
// rejected and leaves the clock unchanged.
func (c *Clock) Advance(delta time.Duration) error {
	if delta < 0 {
		return fmt.Errorf("tileset: %w: %v", ErrNegativeDelta, delta)
	}

	c.elapsed.Add(int64(delta))
	return nil
}

// Reset rewinds the clock to zero, for example on a level reload.
func (c *Clock) Reset() {
	c.elapsed.Store(0)
}

// Restore sets the clock to a previously persisted elapsed time.
func (c *Clock) Restore(elapsed time.Duration) error {
	if elapsed < 0 {
		return fmt.Errorf("tileset: %w: cannot restore %v", ErrNegativeDelta, elapsed)
	}

	c.elapsed.Store(int64(elapsed))
	return nil
}

// Run advances the clock from a wall-clock ticker until the context is
// cancelled. After every tick, fn is called with the new elapsed time, which
// is the snapshot that the tick's resolution pass should use.
func (c *Clock) Run(ctx context.Context, interval time.Duration, fn func(time.Duration)) error {
	if interval <= 0 {
		return fmt.Errorf("tileset: invalid tick interval %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}

			delta := max(now.Sub(last), 0)
			last = now

			c.elapsed.Add(int64(delta))
			if fn != nil {
				fn(c.Elapsed())
			}
		}
	}
}
