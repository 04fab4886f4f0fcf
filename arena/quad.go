package arena

import (
	"fmt"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/gpu"
)

// Map opens the active buffer instance of (depth, slot) for quad
// allocation, creating the layer if needed. The returned allocator must be
// closed to flush the written vertices; the arena bumps the instance's
// epoch on the first map of a frame, marking prior contents overwritten.
func (a *Arena) Map(depth, slotIdx int) (*QuadAllocator, error) {
	if slotIdx < 0 || slotIdx >= SlotsPerLayer {
		return nil, fmt.Errorf("arena: slot %d out of range", slotIdx)
	}
	l, err := a.LayerForDepth(depth)
	if err != nil {
		return nil, err
	}
	s := l.slots[slotIdx]
	if !s.written {
		s.written = true
		s.epochs[s.active]++
	}
	mapped, err := s.bufs[s.active].Map()
	if err != nil {
		return nil, fmt.Errorf("arena: map depth %d slot %d: %w", depth, slotIdx, err)
	}
	return &QuadAllocator{slot: s, mapped: mapped}, nil
}

// QuadAllocator bump-allocates quads in one mapped slot.
type QuadAllocator struct {
	slot   *slot
	mapped *gpu.MappedQuads
}

// Allocate returns a writable quad at the bump cursor and advances it.
//
// If the cursor has reached capacity, allocation wraps to quad zero for the
// remainder of the pass so rendering continues without crashing, while the
// slot records the true demand; the arena reports it through NeedMoreQuads
// and the caller retries the frame after growing.
func (q *QuadAllocator) Allocate() Quad {
	idx := q.slot.next
	q.slot.next++
	if q.slot.next > q.slot.needed {
		q.slot.needed = q.slot.next
	}
	if idx >= q.slot.capacity {
		idx %= q.slot.capacity
	}
	return Quad{verts: q.mapped.Quad(idx)}
}

// Close flushes the written vertices to the GPU.
func (q *QuadAllocator) Close() error {
	return q.mapped.Close()
}

// Quad is a writable view of one allocated quad's four vertices, ordered
// top-left, top-right, bottom-left, bottom-right.
type Quad struct {
	verts []gpu.Vertex
}

// SetPosition writes the corner positions in pixel space.
func (q Quad) SetPosition(left, top, right, bottom float32) {
	q.verts[0].Position = [2]float32{left, top}
	q.verts[1].Position = [2]float32{right, top}
	q.verts[2].Position = [2]float32{left, bottom}
	q.verts[3].Position = [2]float32{right, bottom}
}

// SetTexture writes the atlas region sampled across the quad.
func (q Quad) SetTexture(t termdraw.TextureRect) {
	q.verts[0].TexCoord = [2]float32{t.Left, t.Top}
	q.verts[1].TexCoord = [2]float32{t.Right, t.Top}
	q.verts[2].TexCoord = [2]float32{t.Left, t.Bottom}
	q.verts[3].TexCoord = [2]float32{t.Right, t.Bottom}
}

// SetFG writes the foreground color on all four vertices.
func (q Quad) SetFG(c termdraw.LinearRGBA) {
	arr := c.Array()
	for i := range q.verts {
		q.verts[i].FG = arr
	}
}

// SetAlt writes the secondary color and mix factor on all four vertices.
func (q Quad) SetAlt(c termdraw.LinearRGBA, mix float32) {
	arr := c.Array()
	for i := range q.verts {
		q.verts[i].Alt = arr
		q.verts[i].Mix = mix
	}
}

// SetHSB writes the color transform. A nil transform writes the identity.
func (q Quad) SetHSB(t *termdraw.HSBTransform) {
	hsb := termdraw.IdentityHSB().Array()
	if t != nil {
		hsb = t.Array()
	}
	for i := range q.verts {
		q.verts[i].HSB = hsb
	}
}

// SetMode writes the shader mode flag.
func (q Quad) SetMode(mode float32) {
	for i := range q.verts {
		q.verts[i].Mode = mode
	}
}
