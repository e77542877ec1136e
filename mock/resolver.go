// Package mock provides an in-memory tileset.Resolver for testing renderers
// without building a catalog.
package mock

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelindar/tileset"
)

// Resolver is a lightweight in-memory implementation of tileset.Resolver.
// Static images are returned as-is, sequences cycle with a fixed period per
// image. Every call is recorded and can be inspected with Calls.
type Resolver struct {
	mu     sync.Mutex
	Images map[uint32]tileset.Image
	Cycles map[uint32]Sequence
	calls  []Call
}

// Sequence is a list of images shown for the same duration each.
type Sequence struct {
	Images []tileset.Image
	Step   time.Duration
}

// Call records a single invocation of Resolve.
type Call struct {
	ID      uint32
	Elapsed time.Duration
}

var _ tileset.Resolver = (*Resolver)(nil)

// New creates an empty mock resolver.
func New() *Resolver {
	return &Resolver{
		Images: make(map[uint32]tileset.Image),
		Cycles: make(map[uint32]Sequence),
	}
}

// Add registers the given value into the mock resolver.
func (r *Resolver) Add(id uint32, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch x := v.(type) {
	case tileset.Image:
		r.Images[id] = x
	case string:
		r.Images[id] = tileset.Image{Source: x}
	case Sequence:
		r.Cycles[id] = x
	}
}

// Resolve implements tileset.Resolver.
func (r *Resolver) Resolve(id uint32, elapsed time.Duration) (tileset.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{ID: id, Elapsed: elapsed})

	if seq, ok := r.Cycles[id]; ok && len(seq.Images) > 0 && seq.Step > 0 {
		n := int64(len(seq.Images))
		return seq.Images[(int64(max(elapsed, 0)/seq.Step))%n], nil
	}

	if img, ok := r.Images[id]; ok {
		return img, nil
	}

	return tileset.Image{}, fmt.Errorf("mock: %w: %d", tileset.ErrNotFound, id)
}

// Calls returns a copy of the recorded calls, in order.
func (r *Resolver) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}
