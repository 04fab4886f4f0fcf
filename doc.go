// Package termdraw implements the incremental GPU draw pipeline of a
// terminal-emulator renderer. It turns a per-frame tree of declarative
// drawing commands into GPU quad vertex data, reusing prior-frame GPU
// buffer contents for screen regions whose content has not changed.
//
// # Architecture
//
// The pipeline is split into focused sub-packages:
//   - command: the drawing command IR with traversal, clipping, and
//     content-hashing helpers
//   - gpu: the device abstraction the pipeline renders through, plus an
//     in-memory device for tests and headless use
//   - arena: per-compositing-layer vertex arenas with rotating buffer slots
//   - frame: frame describer types, the pane capability interface, and the
//     per-pane command cache
//   - render: the render plan builder, command executor, continuity store,
//     and draw pass
//   - cache: a generic sharded LRU used for description memoization
//   - backend: the pluggable device backend registry
//   - backend/wgpu: a WebGPU implementation of the device abstraction
//
// The root package holds the small geometry and color value types shared by
// everything else, and the package-wide logger configuration.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left of the viewport, in pixels
//   - X increases right
//   - Y increases down
//
// Vertex positions uploaded to the GPU are offset so the viewport center is
// the origin; the projection uniform maps them back to clip space.
package termdraw

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
