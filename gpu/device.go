package gpu

import (
	"errors"

	"github.com/gogpu/termdraw"
)

var (
	// ErrBufferDestroyed is returned when mapping or drawing with a buffer
	// that has been destroyed.
	ErrBufferDestroyed = errors.New("gpu: buffer destroyed")

	// ErrMappingClosed is returned when writing through a MappedQuads guard
	// after Close.
	ErrMappingClosed = errors.New("gpu: mapping closed")

	// ErrInvalidCapacity is returned when allocating a buffer with a
	// non-positive quad capacity.
	ErrInvalidCapacity = errors.New("gpu: quad capacity must be positive")
)

// Device allocates the GPU buffers the quad arenas live in.
type Device interface {
	// CreateVertexBuffer allocates a vertex buffer holding quadCapacity
	// quads (quadCapacity * VerticesPerQuad vertices).
	CreateVertexBuffer(label string, quadCapacity int) (VertexBuffer, error)

	// CreateIndexBuffer allocates and uploads an immutable index buffer.
	CreateIndexBuffer(label string, indices []uint32) (IndexBuffer, error)
}

// VertexBuffer is a GPU vertex buffer of fixed quad capacity.
type VertexBuffer interface {
	// QuadCapacity returns the number of quads the buffer holds.
	QuadCapacity() int

	// Map exposes the buffer's quads for CPU writes. The returned guard
	// must be closed before the buffer is drawn from; Close flushes the
	// written vertices to the GPU.
	Map() (*MappedQuads, error)

	// Destroy releases the buffer. Safe to call more than once.
	Destroy()
}

// IndexBuffer is an immutable GPU index buffer.
type IndexBuffer interface {
	Destroy()
}

// RenderPass receives the draw calls of one frame in submission order.
type RenderPass interface {
	// SetScissor restricts subsequent draws to the given viewport region.
	SetScissor(x, y, width, height uint32)

	// ClearScissor restores the full-viewport scissor.
	ClearScissor()

	// BindQuadBuffers binds the vertex and index buffer pair for
	// subsequent DrawQuads calls.
	BindQuadBuffers(vb VertexBuffer, ib IndexBuffer) error

	// DrawQuads issues one indexed draw covering quadCount quads starting
	// at firstQuad in the bound vertex buffer.
	DrawQuads(firstQuad, quadCount int) error
}

// Sprites looks up the shared utility sprites in the external glyph atlas.
// Filled rectangles sample the filled-box sprite so every quad goes through
// one pipeline regardless of whether it carries a glyph.
type Sprites interface {
	// FilledBox returns the atlas region of the fully opaque box sprite.
	FilledBox() termdraw.TextureRect

	// WhiteSpace returns the atlas region of the blank cell sprite.
	WhiteSpace() termdraw.TextureRect
}

// StaticSprites is a Sprites implementation backed by fixed regions.
// The zero value (all-zero regions) is usable when no atlas is attached.
type StaticSprites struct {
	Box   termdraw.TextureRect
	Blank termdraw.TextureRect
}

// FilledBox returns the configured filled-box region.
func (s StaticSprites) FilledBox() termdraw.TextureRect { return s.Box }

// WhiteSpace returns the configured blank-cell region.
func (s StaticSprites) WhiteSpace() termdraw.TextureRect { return s.Blank }

// MappedQuads is the guard for a CPU-visible view of a vertex buffer's
// quads. It owns both the staging memory and the flush-on-close obligation,
// so callers can never hold vertex memory past the mapping's lifetime.
type MappedQuads struct {
	verts  []Vertex
	flush  func([]Vertex) error
	closed bool
}

// NewMappedQuads wraps staging memory and a flush callback. Device
// implementations call this from VertexBuffer.Map.
func NewMappedQuads(verts []Vertex, flush func([]Vertex) error) *MappedQuads {
	return &MappedQuads{verts: verts, flush: flush}
}

// QuadCount returns the number of quads addressable through the mapping.
func (m *MappedQuads) QuadCount() int {
	return len(m.verts) / VerticesPerQuad
}

// Quad returns the four vertices of quad i for writing.
// The slice is only valid until Close.
func (m *MappedQuads) Quad(i int) []Vertex {
	base := i * VerticesPerQuad
	return m.verts[base : base+VerticesPerQuad : base+VerticesPerQuad]
}

// Close flushes the written vertices to the GPU and invalidates the mapping.
// Closing twice is an error, matching the one-flush-per-map contract.
func (m *MappedQuads) Close() error {
	if m.closed {
		return ErrMappingClosed
	}
	m.closed = true
	if m.flush == nil {
		return nil
	}
	return m.flush(m.verts)
}
