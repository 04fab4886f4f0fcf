// Package gpu defines the device abstraction the draw pipeline renders
// through: quad vertex layout, buffer allocation, CPU-side mapping, and
// indexed draw submission. The backend/wgpu package implements it over
// WebGPU; MemDevice implements it in memory for tests and headless use.
package gpu

import (
	"encoding/binary"
	"math"
)

// Vertex is one corner of a quad. The field order and sizes must match the
// vertex layout declared by the active render pipeline.
type Vertex struct {
	// Position in pixels, offset so the viewport center is the origin.
	Position [2]float32
	// TexCoord in normalized atlas coordinates.
	TexCoord [2]float32
	// FG is the premultiplied foreground color.
	FG [4]float32
	// Alt is the optional secondary color blended by Mix.
	Alt [4]float32
	// HSB is the hue rotation (degrees) and saturation/brightness multipliers.
	HSB [3]float32
	// Mix blends FG toward Alt (0 = FG only).
	Mix float32
	// Mode is the QuadMode as a float for shader-side branching.
	Mode float32
}

// Quad geometry constants. Every quad is four vertices and two triangles.
const (
	VerticesPerQuad = 4
	IndicesPerQuad  = 6

	// VertexStride is the byte size of one Vertex: 17 float32 fields.
	VertexStride = 17 * 4
)

// EncodeVertices serializes vertices to the little-endian byte layout
// uploaded to GPU vertex buffers.
func EncodeVertices(verts []Vertex) []byte {
	buf := make([]byte, len(verts)*VertexStride)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	for i := range verts {
		v := &verts[i]
		put(v.Position[0])
		put(v.Position[1])
		put(v.TexCoord[0])
		put(v.TexCoord[1])
		put(v.FG[0])
		put(v.FG[1])
		put(v.FG[2])
		put(v.FG[3])
		put(v.Alt[0])
		put(v.Alt[1])
		put(v.Alt[2])
		put(v.Alt[3])
		put(v.HSB[0])
		put(v.HSB[1])
		put(v.HSB[2])
		put(v.Mix)
		put(v.Mode)
	}
	return buf
}

// QuadIndices returns the index data covering quadCapacity quads: two
// triangles per quad, addressing the quad's four vertices in the shared
// vertex buffer.
func QuadIndices(quadCapacity int) []uint32 {
	indices := make([]uint32, 0, quadCapacity*IndicesPerQuad)
	for q := 0; q < quadCapacity; q++ {
		base := uint32(q * VerticesPerQuad)
		indices = append(indices,
			base, base+1, base+2,
			base+2, base+1, base+3,
		)
	}
	return indices
}
