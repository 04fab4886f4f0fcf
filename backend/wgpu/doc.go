// Package wgpu implements the quad rendering device on top of gogpu/wgpu's
// hardware abstraction layer. It uploads encoded quad vertices through the
// queue, owns the quad render pipeline and its viewport uniform, and adapts
// a hal render pass encoder to the pipeline's draw interface.
package wgpu
