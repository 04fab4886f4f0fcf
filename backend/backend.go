package backend

import (
	"errors"

	"github.com/gogpu/termdraw/gpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendMem is the name of the in-memory backend.
	BackendMem = "mem"
	// BackendWGPU is the name of the GPU backend (gogpu/wgpu hal).
	BackendWGPU = "wgpu"
)

// DeviceBackend supplies the gpu.Device the render pipeline runs on.
// Backends must be registered via Register() and are selected via Get() or
// Default().
type DeviceBackend interface {
	// Name returns the backend identifier (e.g., "mem", "wgpu").
	Name() string

	// Init initializes the backend. This must be called before Device.
	Init() error

	// Device returns the backend's device. Returns nil before Init.
	Device() gpu.Device

	// Close releases all backend resources. The backend must not be used
	// after Close.
	Close()
}
