package backend

import (
	"github.com/gogpu/termdraw/gpu"
)

// MemBackend is an in-memory device backend. It backs tests, headless
// frame verification, and environments without a GPU.
type MemBackend struct {
	device *gpu.MemDevice
}

// init registers the in-memory backend on package import.
func init() {
	Register(BackendMem, func() DeviceBackend {
		return &MemBackend{}
	})
}

// NewMemBackend creates a new in-memory device backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{}
}

// Name returns the backend identifier.
func (b *MemBackend) Name() string {
	return BackendMem
}

// Init initializes the backend.
func (b *MemBackend) Init() error {
	if b.device == nil {
		b.device = gpu.NewMemDevice()
	}
	return nil
}

// Device returns the in-memory device, or nil before Init.
func (b *MemBackend) Device() gpu.Device {
	if b.device == nil {
		return nil
	}
	return b.device
}

// MemDevice returns the concrete device for buffer inspection in tests.
// Returns nil before Init.
func (b *MemBackend) MemDevice() *gpu.MemDevice {
	return b.device
}

// Close releases all backend resources.
func (b *MemBackend) Close() {
	b.device = nil
}
