package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/termdraw/gpu"
)

// ErrForeignBuffer is returned when a render pass is handed a buffer that
// was not created by this device.
var ErrForeignBuffer = errors.New("wgpu: buffer from another device")

// Device implements gpu.Device on a hal device and queue. Vertex writes go
// through a CPU staging slice and are uploaded with queue.WriteBuffer when
// the mapping closes.
type Device struct {
	device hal.Device
	queue  hal.Queue
}

// NewDevice wraps a hal device and queue. The caller keeps ownership of
// both; Device only creates and destroys buffers on them.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue}
}

// CreateVertexBuffer allocates a quad vertex buffer of the given capacity.
func (d *Device) CreateVertexBuffer(label string, quadCapacity int) (gpu.VertexBuffer, error) {
	if quadCapacity <= 0 {
		return nil, gpu.ErrInvalidCapacity
	}
	size := uint64(quadCapacity) * gpu.VerticesPerQuad * gpu.VertexStride
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	return &vertexBuffer{
		dev:      d,
		buf:      buf,
		capacity: quadCapacity,
		staging:  make([]gpu.Vertex, quadCapacity*gpu.VerticesPerQuad),
	}, nil
}

// CreateIndexBuffer allocates an index buffer and uploads the indices.
func (d *Device) CreateIndexBuffer(label string, indices []uint32) (gpu.IndexBuffer, error) {
	data := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(data[i*4:], idx)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return &indexBuffer{dev: d, buf: buf}, nil
}

type vertexBuffer struct {
	dev      *Device
	buf      hal.Buffer
	capacity int
	staging  []gpu.Vertex
}

func (v *vertexBuffer) QuadCapacity() int { return v.capacity }

func (v *vertexBuffer) Map() (*gpu.MappedQuads, error) {
	if v.buf == nil {
		return nil, gpu.ErrBufferDestroyed
	}
	return gpu.NewMappedQuads(v.staging, v.flush), nil
}

func (v *vertexBuffer) flush(verts []gpu.Vertex) error {
	if v.buf == nil {
		return gpu.ErrBufferDestroyed
	}
	v.dev.queue.WriteBuffer(v.buf, 0, gpu.EncodeVertices(verts))
	return nil
}

func (v *vertexBuffer) Destroy() {
	if v.buf == nil {
		return
	}
	v.dev.device.DestroyBuffer(v.buf)
	v.buf = nil
	v.staging = nil
}

type indexBuffer struct {
	dev *Device
	buf hal.Buffer
}

func (b *indexBuffer) Destroy() {
	if b.buf == nil {
		return
	}
	b.dev.device.DestroyBuffer(b.buf)
	b.buf = nil
}
