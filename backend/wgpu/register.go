package wgpu

import (
	"github.com/gogpu/termdraw/backend"
	"github.com/gogpu/termdraw/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Backend is the wgpu device backend. It wraps a hal device the embedding
// application opened for its window surface; the application keeps ownership
// of the hal device and queue.
type Backend struct {
	halDevice hal.Device
	halQueue  hal.Queue
	device    *Device
}

// RegisterBackend registers a wgpu backend over an opened hal device, making
// it the default backend choice. Called by the embedding application after
// surface setup.
func RegisterBackend(device hal.Device, queue hal.Queue) {
	backend.Register(backend.BackendWGPU, func() backend.DeviceBackend {
		return &Backend{halDevice: device, halQueue: queue}
	})
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if b.device == nil {
		b.device = NewDevice(b.halDevice, b.halQueue)
	}
	return nil
}

// Device returns the wgpu device, or nil before Init.
func (b *Backend) Device() gpu.Device {
	if b.device == nil {
		return nil
	}
	return b.device
}

// Close releases the backend's wrapper. The hal device itself belongs to
// the embedding application and is left open.
func (b *Backend) Close() {
	b.device = nil
}
