// Package frame defines the types the external frame describer hands to the
// render pipeline: the pane capability interface, the per-frame description
// of background/panes/chrome, and the cross-frame pane command cache.
package frame

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/command"
)

// Pane is the capability a visible pane must expose to the pipeline. The
// pipeline never sees terminal state directly; it only needs a stable
// identity, screen bounds, a content fingerprint, and the ability to
// describe the pane as a command list.
type Pane interface {
	// ID returns the pane's stable identity across frames.
	ID() int

	// Bounds returns the pane's screen rectangle in pixels.
	Bounds() termdraw.Rect

	// ContentFingerprint returns an opaque 64-bit summary of the pane's
	// visual content. Equal fingerprints are treated as equal content.
	ContentFingerprint() uint64

	// Describe produces the pane's drawing commands. Called only when the
	// cache has no current entry for the pane.
	Describe() ([]command.Command, error)
}

// PaneEntry is one pane's resolved description within a frame.
type PaneEntry struct {
	PaneID      int
	IsActive    bool
	Bounds      termdraw.Rect
	Fingerprint uint64
	Key         CacheKey
	Commands    []command.Command
	// SkipStreak counts consecutive frames this pane's description was
	// reused from the cache, including this one.
	SkipStreak int
}

// Chrome holds the window decoration command lists drawn after all panes.
type Chrome struct {
	TabBar  []command.Command
	Splits  []command.Command
	Borders []command.Command
	Modal   []command.Command
}

// Commands returns the chrome lists concatenated in paint order.
func (c Chrome) Commands() []command.Command {
	out := make([]command.Command, 0,
		len(c.TabBar)+len(c.Splits)+len(c.Borders)+len(c.Modal))
	out = append(out, c.TabBar...)
	out = append(out, c.Splits...)
	out = append(out, c.Borders...)
	out = append(out, c.Modal...)
	return out
}

// Frame is one frame's complete description: background commands, visible
// panes in paint order, and chrome.
type Frame struct {
	Background []command.Command
	Panes      []PaneEntry
	Chrome     Chrome
	// PostProcess requests that the frame's output run through the
	// post-processing stage after the draw pass.
	PostProcess bool
}

// Generations are counters the embedding application bumps when state
// outside pane content changes pane appearance: palette swaps, font or
// config reloads. They feed the cache key so stale descriptions die with
// the state that produced them.
type Generations struct {
	Palette uint64
	Config  uint64
}

// CacheKey identifies one pane state for caching: content fingerprint plus
// layout, focus, and generation state.
type CacheKey uint64

// NewCacheKey derives the cache key for a pane state.
func NewCacheKey(fingerprint uint64, bounds termdraw.Rect, active bool, gen Generations) CacheKey {
	h := fnv.New64a()
	var buf [8]byte
	put64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	put64(fingerprint)
	put64(uint64(math.Float32bits(bounds.X)) | uint64(math.Float32bits(bounds.Y))<<32)
	put64(uint64(math.Float32bits(bounds.W)) | uint64(math.Float32bits(bounds.H))<<32)
	if active {
		put64(1)
	} else {
		put64(0)
	}
	put64(gen.Palette)
	put64(gen.Config)
	return CacheKey(h.Sum64())
}
