// Package backend provides a pluggable device backend abstraction.
//
// A backend supplies the gpu.Device the render pipeline allocates its quad
// buffers on. Backends are registered via init() functions or explicit
// registration calls and selected at runtime.
//
// The in-memory backend is always available and registers itself on import:
//
//	import _ "github.com/gogpu/termdraw/backend"
//
// The wgpu backend is registered by the embedding application once it has
// opened a hal device for its window surface:
//
//	wgpubackend.RegisterBackend(halDevice, halQueue)
//
// Use Default() to get the best available backend, or Get() to request a
// specific one by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	r, err := render.New(b.Device(), render.Config{Width: 800, Height: 600})
//
// Available backends:
//
//   - "wgpu": GPU buffers via gogpu/wgpu hal (registered by the embedder)
//   - "mem": in-memory buffers for tests and headless use (always available)
package backend
