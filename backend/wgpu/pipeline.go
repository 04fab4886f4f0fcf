package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/termdraw/gpu"
)

//go:embed shaders/quad.wgsl
var quadShaderWGSL string

// quadUniformSize is the byte size of the viewport uniform:
// viewport width, viewport height, and two padding floats for 16-byte
// alignment.
const quadUniformSize = 16

// defaultSampleCount is the MSAA sample count for the quad pipeline. Quad
// edges are axis-aligned so 4x is already more than the content needs.
const defaultSampleCount = 4

// QuadPipeline owns the GPU objects of the quad render pipeline: the
// compiled shader, the bind group layout and pipeline layout, the pipeline
// itself, and the viewport uniform buffer with its bind group.
type QuadPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	uniformBuf    hal.Buffer
	bindGroup     hal.BindGroup

	width  uint32
	height uint32
}

// NewQuadPipeline compiles the quad shader and creates the render pipeline
// for the given viewport size.
func NewQuadPipeline(device hal.Device, queue hal.Queue, width, height uint32) (*QuadPipeline, error) {
	p := &QuadPipeline{device: device, queue: queue, width: width, height: height}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// createPipeline compiles the shader through naga and creates the pipeline
// with premultiplied alpha blending and MSAA.
func (p *QuadPipeline) createPipeline() error {
	if quadShaderWGSL == "" {
		return fmt.Errorf("wgpu: quad shader source is empty")
	}

	spirvBytes, err := naga.Compile(quadShaderWGSL)
	if err != nil {
		return fmt.Errorf("wgpu: compile quad shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad shader module: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "quad_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "quad_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: defaultSampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad pipeline: %w", err)
	}
	p.pipeline = pipeline

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_uniform",
		Size:  quadUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf
	p.uploadUniform()

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "quad_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: quadUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create quad bind group: %w", err)
	}
	p.bindGroup = bindGroup
	return nil
}

// SetViewport updates the viewport dimensions in the uniform buffer.
func (p *QuadPipeline) SetViewport(width, height uint32) {
	p.width = width
	p.height = height
	if p.uniformBuf != nil {
		p.uploadUniform()
	}
}

func (p *QuadPipeline) uploadUniform() {
	var data [quadUniformSize]byte
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(float32(p.width)))
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(float32(p.height)))
	p.queue.WriteBuffer(p.uniformBuf, 0, data[:])
}

// Destroy releases all pipeline resources in reverse creation order. Safe
// to call multiple times or on a partially constructed pipeline.
func (p *QuadPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// quadVertexLayout returns the vertex buffer layout for the quad pipeline.
// Matches VertexInput in quad.wgsl and the encoding in gpu.EncodeVertices.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpu.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // tex_coord
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // fg
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3}, // alt
				{Format: gputypes.VertexFormatFloat32x3, Offset: 48, ShaderLocation: 4}, // hsb
				{Format: gputypes.VertexFormatFloat32, Offset: 60, ShaderLocation: 5},   // mix
				{Format: gputypes.VertexFormatFloat32, Offset: 64, ShaderLocation: 6},   // mode
			},
		},
	}
}
