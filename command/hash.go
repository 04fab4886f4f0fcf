package command

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"

	"github.com/gogpu/termdraw"
)

// Leaf discriminants fed into the content hash. Batch has no discriminant:
// batches hash their children in order, not their own identity.
const (
	hashTagClear       = 0x01
	hashTagFillRect    = 0x02
	hashTagDrawQuad    = 0x03
	hashTagSetClip     = 0x04
	hashTagPostProcess = 0x05
	hashTagNop         = 0x06
)

// ContentHash produces a deterministic 64-bit fingerprint of a command list.
// Two lists that are structurally and numerically identical always hash
// equal. Equality of hashes is used as an equality proxy for "content
// unchanged"; collisions are an accepted approximation.
func ContentHash(cmds []Command) uint64 {
	h := &contentHasher{sum: fnv.New64a()}
	h.writeList(cmds)
	return h.sum.Sum64()
}

type contentHasher struct {
	sum     hash.Hash64
	scratch [8]byte
}

func (h *contentHasher) writeList(cmds []Command) {
	for _, cmd := range cmds {
		h.writeCommand(cmd)
	}
}

func (h *contentHasher) writeCommand(cmd Command) {
	switch c := cmd.(type) {
	case Clear:
		h.byte(hashTagClear)
		h.color(c.Color)
	case FillRect:
		h.byte(hashTagFillRect)
		h.int(c.Layer)
		h.int(c.Depth)
		h.rect(c.Rect)
		h.color(c.Color)
		h.transform(c.Transform)
	case DrawQuad:
		h.byte(hashTagDrawQuad)
		h.int(c.Layer)
		h.int(c.Depth)
		h.rect(c.Rect)
		h.f32(c.Texture.Left)
		h.f32(c.Texture.Top)
		h.f32(c.Texture.Right)
		h.f32(c.Texture.Bottom)
		h.color(c.FG)
		if c.Alt != nil {
			h.byte(1)
			h.color(c.Alt.Color)
			h.f32(c.Alt.Mix)
		} else {
			h.byte(0)
		}
		h.transform(c.Transform)
		h.byte(byte(c.Mode))
	case SetClip:
		h.byte(hashTagSetClip)
		if c.Rect != nil {
			h.byte(1)
			h.rect(*c.Rect)
		} else {
			h.byte(0)
		}
	case BeginPostProcess:
		h.byte(hashTagPostProcess)
	case Batch:
		h.writeList(c.Commands)
	case Nop:
		h.byte(hashTagNop)
	}
}

func (h *contentHasher) byte(b byte) {
	h.scratch[0] = b
	h.sum.Write(h.scratch[:1])
}

func (h *contentHasher) int(v int) {
	binary.LittleEndian.PutUint64(h.scratch[:8], uint64(int64(v)))
	h.sum.Write(h.scratch[:8])
}

// f32 hashes the exact bit pattern so -0.0 and 0.0, or NaN payloads, never
// alias distinct command lists.
func (h *contentHasher) f32(v float32) {
	binary.LittleEndian.PutUint32(h.scratch[:4], math.Float32bits(v))
	h.sum.Write(h.scratch[:4])
}

func (h *contentHasher) rect(r termdraw.Rect) {
	h.f32(r.X)
	h.f32(r.Y)
	h.f32(r.W)
	h.f32(r.H)
}

func (h *contentHasher) color(c termdraw.LinearRGBA) {
	h.f32(c.R)
	h.f32(c.G)
	h.f32(c.B)
	h.f32(c.A)
}

func (h *contentHasher) transform(t *termdraw.HSBTransform) {
	if t == nil {
		h.byte(0)
		return
	}
	h.byte(1)
	h.f32(t.Hue)
	h.f32(t.Saturation)
	h.f32(t.Brightness)
}
