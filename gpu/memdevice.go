package gpu

import (
	"fmt"
	"sync"
)

// MemDevice is an in-memory Device. It backs tests, headless frame
// verification, and environments without a GPU: buffers are plain vertex
// slices and draws are recorded instead of submitted.
type MemDevice struct {
	mu        sync.Mutex
	created   int
	destroyed int
}

// NewMemDevice creates an in-memory device.
func NewMemDevice() *MemDevice {
	return &MemDevice{}
}

// CreateVertexBuffer allocates an in-memory vertex buffer.
func (d *MemDevice) CreateVertexBuffer(label string, quadCapacity int) (VertexBuffer, error) {
	if quadCapacity <= 0 {
		return nil, fmt.Errorf("%w: %d (%s)", ErrInvalidCapacity, quadCapacity, label)
	}
	d.mu.Lock()
	d.created++
	d.mu.Unlock()
	return &memVertexBuffer{
		device:   d,
		label:    label,
		capacity: quadCapacity,
		verts:    make([]Vertex, quadCapacity*VerticesPerQuad),
	}, nil
}

// CreateIndexBuffer stores a copy of the index data.
func (d *MemDevice) CreateIndexBuffer(label string, indices []uint32) (IndexBuffer, error) {
	d.mu.Lock()
	d.created++
	d.mu.Unlock()
	data := make([]uint32, len(indices))
	copy(data, indices)
	return &memIndexBuffer{device: d, label: label, indices: data}, nil
}

// LiveBuffers returns the number of buffers created and not yet destroyed.
// Tests use this to detect leaks across arena growth.
func (d *MemDevice) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created - d.destroyed
}

type memVertexBuffer struct {
	device    *MemDevice
	label     string
	capacity  int
	verts     []Vertex
	destroyed bool
}

func (b *memVertexBuffer) QuadCapacity() int { return b.capacity }

func (b *memVertexBuffer) Map() (*MappedQuads, error) {
	if b.destroyed {
		return nil, fmt.Errorf("%w: %s", ErrBufferDestroyed, b.label)
	}
	staging := make([]Vertex, len(b.verts))
	copy(staging, b.verts)
	return NewMappedQuads(staging, func(verts []Vertex) error {
		if b.destroyed {
			return fmt.Errorf("%w: %s", ErrBufferDestroyed, b.label)
		}
		copy(b.verts, verts)
		return nil
	}), nil
}

func (b *memVertexBuffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.mu.Lock()
	b.device.destroyed++
	b.device.mu.Unlock()
}

// Vertices returns the flushed vertex contents for inspection in tests.
func (b *memVertexBuffer) Vertices() []Vertex { return b.verts }

type memIndexBuffer struct {
	device    *MemDevice
	label     string
	indices   []uint32
	destroyed bool
}

func (b *memIndexBuffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.mu.Lock()
	b.device.destroyed++
	b.device.mu.Unlock()
}

// DrawCall is one recorded RecordingPass draw.
type DrawCall struct {
	// Scissor is the active scissor at draw time; nil means full viewport.
	Scissor *[4]uint32
	// Buffer is the vertex buffer the draw read from.
	Buffer VertexBuffer
	// FirstQuad and QuadCount identify the drawn range.
	FirstQuad int
	QuadCount int
}

// RecordingPass is a RenderPass that records draw calls for inspection.
type RecordingPass struct {
	scissor *[4]uint32
	vb      VertexBuffer
	ib      IndexBuffer

	// Calls holds every draw in submission order.
	Calls []DrawCall
}

// NewRecordingPass creates an empty recording pass.
func NewRecordingPass() *RecordingPass {
	return &RecordingPass{}
}

// SetScissor records the scissor for subsequent draws.
func (p *RecordingPass) SetScissor(x, y, width, height uint32) {
	p.scissor = &[4]uint32{x, y, width, height}
}

// ClearScissor restores the full-viewport scissor.
func (p *RecordingPass) ClearScissor() {
	p.scissor = nil
}

// BindQuadBuffers binds the buffer pair for subsequent draws.
func (p *RecordingPass) BindQuadBuffers(vb VertexBuffer, ib IndexBuffer) error {
	if vb == nil {
		return fmt.Errorf("%w: nil vertex buffer", ErrBufferDestroyed)
	}
	p.vb = vb
	p.ib = ib
	return nil
}

// DrawQuads records one draw call.
func (p *RecordingPass) DrawQuads(firstQuad, quadCount int) error {
	if p.vb == nil {
		return fmt.Errorf("gpu: DrawQuads without bound vertex buffer")
	}
	if mb, ok := p.vb.(*memVertexBuffer); ok && mb.destroyed {
		return fmt.Errorf("%w: %s", ErrBufferDestroyed, mb.label)
	}
	p.Calls = append(p.Calls, DrawCall{
		Scissor:   p.scissor,
		Buffer:    p.vb,
		FirstQuad: firstQuad,
		QuadCount: quadCount,
	})
	return nil
}

// QuadsDrawn returns the total quad count across all recorded draws.
func (p *RecordingPass) QuadsDrawn() int {
	total := 0
	for _, c := range p.Calls {
		total += c.QuadCount
	}
	return total
}
