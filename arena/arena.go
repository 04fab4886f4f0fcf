// Package arena manages the per-compositing-layer GPU vertex arenas.
//
// Each layer, identified by an integer depth and drawn in increasing depth
// order, owns three slots. A slot is a bump allocator over a vertex buffer
// of fixed quad capacity, and rotates across three buffer instances so data
// written on one frame stays resident while the next frame writes the
// sibling instance. The arena owns all layers and slots; callers address
// quads by (depth, slot) through the arena rather than holding buffer
// handles of their own.
package arena

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/gpu"
)

const (
	// SlotsPerLayer is the number of independently addressed sub-buffers
	// per layer. Terminal content conventionally uses slot 0 for cell
	// backgrounds, slot 1 for glyphs, and slot 2 for overlays.
	SlotsPerLayer = 3

	// BufferRotation is the number of buffer instances each slot rotates
	// through across frames.
	BufferRotation = 3

	// DefaultMainCapacity is the quad capacity of the depth-0 layer's
	// glyph slot, sized for a typical full terminal screen.
	DefaultMainCapacity = 1024

	// DefaultLazyCapacity is the initial quad capacity of lazily created
	// layers and of the depth-0 background/overlay slots.
	DefaultLazyCapacity = 128

	// CapacityTile is the growth granularity: capacities are always a
	// multiple of this.
	CapacityTile = 128
)

// ErrClosed is returned when using an arena after Close.
var ErrClosed = errors.New("arena: closed")

// LayerQuadSnapshot records the quad count of one (depth, slot) pair at a
// point in time.
type LayerQuadSnapshot struct {
	Depth     int
	Slot      int
	QuadCount int
}

// Snapshot is the full set of per-(depth, slot) quad counts across all live
// layers, in depth order.
type Snapshot []LayerQuadSnapshot

// Count returns the quad count recorded for (depth, slot), or zero if the
// layer did not exist when the snapshot was taken.
func (s Snapshot) Count(depth, slot int) int {
	for _, e := range s {
		if e.Depth == depth && e.Slot == slot {
			return e.QuadCount
		}
	}
	return 0
}

// BufferRef identifies one buffer instance of a slot at a point in time.
// Epoch increments whenever the instance is written, so holders of a ref can
// detect that their data has since been overwritten.
type BufferRef struct {
	Buffer   gpu.VertexBuffer
	Depth    int
	Slot     int
	Instance int
	Epoch    uint64
}

// slot is one bump allocator rotating across BufferRotation buffer
// instances.
type slot struct {
	bufs   [BufferRotation]gpu.VertexBuffer
	epochs [BufferRotation]uint64
	active int

	capacity int
	// next is the logical bump cursor for the current frame. It keeps
	// counting past capacity on overflow; allocation wraps modulo
	// capacity while next records the true demand.
	next int
	// needed is the high-water demand across the frame, set when next
	// exceeds capacity.
	needed int
	// written reports whether the active instance was mapped for writing
	// this frame (used to bump its epoch exactly once per frame).
	written bool
}

// Layer is a depth-ordered bucket of quads with SlotsPerLayer slots and one
// shared index buffer covering the largest slot capacity.
type Layer struct {
	depth      int
	slots      [SlotsPerLayer]*slot
	index      gpu.IndexBuffer
	indexQuads int
}

// Depth returns the layer's compositing depth.
func (l *Layer) Depth() int { return l.depth }

// IndexBuffer returns the layer's shared index buffer.
func (l *Layer) IndexBuffer() gpu.IndexBuffer { return l.index }

// Arena owns every layer and slot. It is not safe for concurrent use; the
// pipeline runs on a single rendering thread.
type Arena struct {
	device gpu.Device
	layers []*Layer // sorted by depth
	closed bool
}

// New creates an arena with the depth-0 layer preallocated: the glyph slot
// at DefaultMainCapacity and the remaining slots at DefaultLazyCapacity.
func New(device gpu.Device) (*Arena, error) {
	a := &Arena{device: device}
	caps := [SlotsPerLayer]int{DefaultLazyCapacity, DefaultMainCapacity, DefaultLazyCapacity}
	layer, err := a.newLayer(0, caps)
	if err != nil {
		return nil, err
	}
	a.layers = append(a.layers, layer)
	return a, nil
}

func (a *Arena) newLayer(depth int, caps [SlotsPerLayer]int) (*Layer, error) {
	l := &Layer{depth: depth}
	maxCap := 0
	for si := 0; si < SlotsPerLayer; si++ {
		s := &slot{capacity: caps[si]}
		for i := 0; i < BufferRotation; i++ {
			label := fmt.Sprintf("layer%d_slot%d_%d", depth, si, i)
			vb, err := a.device.CreateVertexBuffer(label, caps[si])
			if err != nil {
				l.destroy()
				return nil, fmt.Errorf("arena: create vertex buffer %s: %w", label, err)
			}
			s.bufs[i] = vb
		}
		l.slots[si] = s
		if caps[si] > maxCap {
			maxCap = caps[si]
		}
	}
	if err := a.rebuildIndexBuffer(l, maxCap); err != nil {
		l.destroy()
		return nil, err
	}
	termdraw.Logger().Debug("arena: layer created",
		"depth", depth, "capacity", maxCap)
	return l, nil
}

func (a *Arena) rebuildIndexBuffer(l *Layer, quads int) error {
	if l.index != nil {
		l.index.Destroy()
		l.index = nil
	}
	ib, err := a.device.CreateIndexBuffer(
		fmt.Sprintf("layer%d_indices", l.depth), gpu.QuadIndices(quads))
	if err != nil {
		return fmt.Errorf("arena: create index buffer for depth %d: %w", l.depth, err)
	}
	l.index = ib
	l.indexQuads = quads
	return nil
}

func (l *Layer) destroy() {
	for _, s := range l.slots {
		if s == nil {
			continue
		}
		for _, vb := range s.bufs {
			if vb != nil {
				vb.Destroy()
			}
		}
	}
	if l.index != nil {
		l.index.Destroy()
		l.index = nil
	}
}

// LayerForDepth returns the layer at the given depth, creating it with
// DefaultLazyCapacity slots if absent. Layers stay sorted by depth so
// iteration order equals paint order.
func (a *Arena) LayerForDepth(depth int) (*Layer, error) {
	if a.closed {
		return nil, ErrClosed
	}
	i := sort.Search(len(a.layers), func(i int) bool {
		return a.layers[i].depth >= depth
	})
	if i < len(a.layers) && a.layers[i].depth == depth {
		return a.layers[i], nil
	}
	caps := [SlotsPerLayer]int{DefaultLazyCapacity, DefaultLazyCapacity, DefaultLazyCapacity}
	layer, err := a.newLayer(depth, caps)
	if err != nil {
		return nil, err
	}
	a.layers = append(a.layers, nil)
	copy(a.layers[i+1:], a.layers[i:])
	a.layers[i] = layer
	return layer, nil
}

// Depths returns the live layer depths in paint order.
func (a *Arena) Depths() []int {
	depths := make([]int, len(a.layers))
	for i, l := range a.layers {
		depths[i] = l.depth
	}
	return depths
}

// ClearQuadAllocation resets every slot's bump cursor and demand counter.
// Called at the start of every frame (and of every retry pass).
func (a *Arena) ClearQuadAllocation() {
	for _, l := range a.layers {
		for _, s := range l.slots {
			s.next = 0
			s.needed = 0
			s.written = false
		}
	}
}

// AdvanceRotation moves every slot to its next buffer instance. Called once
// per completed frame so the just-written instances stay resident for
// continuity replay while the next frame writes their siblings.
func (a *Arena) AdvanceRotation() {
	for _, l := range a.layers {
		for _, s := range l.slots {
			s.active = (s.active + 1) % BufferRotation
		}
	}
}

// SnapshotCounts returns the current per-(depth, slot) logical quad counts.
// Counts grow monotonically within a frame; ClearQuadAllocation resets them.
func (a *Arena) SnapshotCounts() Snapshot {
	snap := make(Snapshot, 0, len(a.layers)*SlotsPerLayer)
	for _, l := range a.layers {
		for si, s := range l.slots {
			snap = append(snap, LayerQuadSnapshot{
				Depth:     l.depth,
				Slot:      si,
				QuadCount: s.next,
			})
		}
	}
	return snap
}

// NeedMoreQuads reports whether any slot overflowed its capacity this frame.
// The overflowing pass wrapped its writes and produced corrupt quad data, so
// the caller must grow the arena and retry the frame.
func (a *Arena) NeedMoreQuads() bool {
	for _, l := range a.layers {
		for _, s := range l.slots {
			if s.needed > s.capacity {
				return true
			}
		}
	}
	return false
}

// Grow reallocates every overflowed slot to the next CapacityTile multiple
// of its recorded demand, and rebuilds the owning layer's index buffer when
// the largest slot capacity increases. All previously resident data in the
// grown slots is lost; callers must invalidate any continuity state that
// references them.
func (a *Arena) Grow() error {
	if a.closed {
		return ErrClosed
	}
	for _, l := range a.layers {
		grew := false
		for si, s := range l.slots {
			if s.needed <= s.capacity {
				continue
			}
			newCap := roundUpTile(s.needed)
			termdraw.Logger().Debug("arena: growing slot",
				"depth", l.depth, "slot", si,
				"from", s.capacity, "to", newCap)
			for i := 0; i < BufferRotation; i++ {
				label := fmt.Sprintf("layer%d_slot%d_%d", l.depth, si, i)
				vb, err := a.device.CreateVertexBuffer(label, newCap)
				if err != nil {
					return fmt.Errorf("arena: grow %s: %w", label, err)
				}
				if s.bufs[i] != nil {
					s.bufs[i].Destroy()
				}
				s.bufs[i] = vb
				s.epochs[i]++
			}
			s.capacity = newCap
			grew = true
		}
		if grew {
			maxCap := 0
			for _, s := range l.slots {
				if s.capacity > maxCap {
					maxCap = s.capacity
				}
			}
			if maxCap > l.indexQuads {
				if err := a.rebuildIndexBuffer(l, maxCap); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ActiveRef returns a reference to the buffer instance the given (depth,
// slot) is currently writing. The layer must already exist.
func (a *Arena) ActiveRef(depth, slotIdx int) (BufferRef, bool) {
	l, ok := a.findLayer(depth)
	if !ok {
		return BufferRef{}, false
	}
	s := l.slots[slotIdx]
	return BufferRef{
		Buffer:   s.bufs[s.active],
		Depth:    depth,
		Slot:     slotIdx,
		Instance: s.active,
		Epoch:    s.epochs[s.active],
	}, true
}

// RefValid reports whether the data a BufferRef pointed at is still
// resident: the instance exists and has not been rewritten since the ref
// was taken.
func (a *Arena) RefValid(ref BufferRef) bool {
	l, ok := a.findLayer(ref.Depth)
	if !ok {
		return false
	}
	s := l.slots[ref.Slot]
	if ref.Instance < 0 || ref.Instance >= BufferRotation {
		return false
	}
	return s.bufs[ref.Instance] == ref.Buffer && s.epochs[ref.Instance] == ref.Epoch
}

func (a *Arena) findLayer(depth int) (*Layer, bool) {
	i := sort.Search(len(a.layers), func(i int) bool {
		return a.layers[i].depth >= depth
	})
	if i < len(a.layers) && a.layers[i].depth == depth {
		return a.layers[i], true
	}
	return nil, false
}

// Close destroys every buffer the arena owns. Safe to call more than once.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	for _, l := range a.layers {
		l.destroy()
	}
	a.layers = nil
	return nil
}

func roundUpTile(n int) int {
	return (n + CapacityTile - 1) / CapacityTile * CapacityTile
}
