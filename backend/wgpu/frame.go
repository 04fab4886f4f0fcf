package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/gpu"
)

// frameTimeout bounds the fence wait after submission.
const frameTimeout = 5 * time.Second

// Frame is one encoded frame: a command encoder with an open render pass
// targeting the given view. Draws are recorded through Pass; End closes the
// pass, submits, and waits for the GPU.
type Frame struct {
	dev      *Device
	pipeline *QuadPipeline
	encoder  hal.CommandEncoder
	rp       hal.RenderPassEncoder
	pass     *framePass
}

// BeginFrame opens a render pass on the target view, cleared to the given
// color, with the quad pipeline and its uniform bind group set.
func (d *Device) BeginFrame(p *QuadPipeline, view hal.TextureView, clear termdraw.LinearRGBA) (*Frame, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "termdraw_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("termdraw_frame"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "termdraw_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(clear.R), G: float64(clear.G),
				B: float64(clear.B), A: float64(clear.A),
			},
		}},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)

	return &Frame{
		dev:      d,
		pipeline: p,
		encoder:  encoder,
		rp:       rp,
		pass:     &framePass{rp: rp, width: p.width, height: p.height},
	}, nil
}

// Pass returns the frame's draw interface.
func (f *Frame) Pass() gpu.RenderPass {
	return f.pass
}

// End closes the render pass, submits the command buffer, and blocks until
// the GPU signals completion.
func (f *Frame) End() error {
	f.rp.End()
	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer f.dev.device.FreeCommandBuffer(cmdBuf)

	fence, err := f.dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer f.dev.device.DestroyFence(fence)

	if err := f.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := f.dev.device.Wait(fence, 1, frameTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wgpu: wait for frame: ok=%v err=%w", ok, err)
	}
	return nil
}

// framePass adapts a hal render pass encoder to gpu.RenderPass.
type framePass struct {
	rp     hal.RenderPassEncoder
	width  uint32
	height uint32
}

func (p *framePass) SetScissor(x, y, width, height uint32) {
	p.rp.SetScissorRect(x, y, width, height)
}

func (p *framePass) ClearScissor() {
	p.rp.SetScissorRect(0, 0, p.width, p.height)
}

func (p *framePass) BindQuadBuffers(vb gpu.VertexBuffer, ib gpu.IndexBuffer) error {
	v, ok := vb.(*vertexBuffer)
	if !ok {
		return ErrForeignBuffer
	}
	i, ok := ib.(*indexBuffer)
	if !ok {
		return ErrForeignBuffer
	}
	if v.buf == nil || i.buf == nil {
		return gpu.ErrBufferDestroyed
	}
	p.rp.SetVertexBuffer(0, v.buf, 0)
	p.rp.SetIndexBuffer(i.buf, gputypes.IndexFormatUint32, 0)
	return nil
}

func (p *framePass) DrawQuads(firstQuad, quadCount int) error {
	if quadCount <= 0 {
		return nil
	}
	p.rp.DrawIndexed(
		uint32(quadCount)*gpu.IndicesPerQuad, 1,
		uint32(firstQuad)*gpu.IndicesPerQuad, 0, 0)
	return nil
}
