// Command termdraw-demo drives the incremental render pipeline headlessly.
//
// It lays out a tab bar and two terminal-like panes, paints a number of
// frames while scrolling one pane, and prints how much work the pipeline
// skipped. Useful for eyeballing skip rates and arena growth without a GPU.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/backend"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/frame"
	"github.com/gogpu/termdraw/gpu"
	"github.com/gogpu/termdraw/render"
)

func main() {
	var (
		width   = flag.Int("width", 800, "viewport width in pixels")
		height  = flag.Int("height", 600, "viewport height in pixels")
		frames  = flag.Int("frames", 60, "frames to paint")
		scroll  = flag.Int("scroll-every", 10, "scroll the left pane every N frames")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		termdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	b, err := backend.InitDefault()
	if err != nil {
		log.Fatalf("no device backend: %v", err)
	}
	defer b.Close()
	log.Printf("using %q backend", b.Name())

	r, err := render.New(b.Device(), render.Config{
		Width:  uint32(*width),
		Height: uint32(*height),
	})
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer r.Close()

	metrics := frame.CellMetricsFromPixels(8, 16)
	tabBarH := float32(24)
	paneH := float32(*height) - tabBarH
	paneW := float32(*width) / 2

	left := &demoPane{
		id:      1,
		bounds:  termdraw.XYWH(0, tabBarH, paneW, paneH),
		metrics: metrics,
	}
	right := &demoPane{
		id:      2,
		bounds:  termdraw.XYWH(paneW, tabBarH, paneW, paneH),
		metrics: metrics,
	}

	background := []command.Command{
		command.Clear{Color: termdraw.RGB(0.07, 0.07, 0.10)},
		command.FillRect{
			Rect:  termdraw.XYWH(0, 0, float32(*width), float32(*height)),
			Color: termdraw.RGB(0.07, 0.07, 0.10),
		},
	}
	chrome := frame.Chrome{
		TabBar: []command.Command{
			command.FillRect{Layer: 2, Rect: termdraw.XYWH(0, 0, float32(*width), tabBarH),
				Color: termdraw.RGB(0.15, 0.15, 0.2)},
		},
		Splits: []command.Command{
			command.FillRect{Layer: 2, Rect: termdraw.XYWH(paneW-1, tabBarH, 2, paneH),
				Color: termdraw.RGB(0.3, 0.3, 0.35)},
		},
	}

	for i := 0; i < *frames; i++ {
		if *scroll > 0 && i%*scroll == 0 {
			left.scrollLine()
		}

		f, err := r.DescribeFrame(background, []frame.Pane{left, right}, left.id, chrome, frame.Generations{})
		if err != nil {
			log.Fatalf("describe frame %d: %v", i, err)
		}
		if _, err := r.Paint(f, gpu.NewRecordingPass()); err != nil {
			log.Fatalf("paint frame %d: %v", i, err)
		}
	}

	stats := r.Stats()
	cacheStats := r.Cache().Stats()
	fmt.Printf("frames painted:   %d (%d overflow retries)\n", stats.FramesPainted, stats.PaintRetries)
	fmt.Printf("pane sections:    %d, skipped %d (%.0f%%)\n",
		stats.PaneSections, stats.SkippedPaneSections, stats.SkipRate*100)
	fmt.Printf("max skip streak:  %d\n", stats.MaxSkipStreak)
	fmt.Printf("describe cache:   %.0f%% hit rate over %d panes\n",
		cacheStats.HitRate*100, cacheStats.Entries)
	fmt.Printf("quads per frame:  mean %.0f, max %.0f\n",
		r.QuadsPerFrame.Mean(), r.QuadsPerFrame.Max())
}

// demoPane renders a fake terminal grid; scrollLine shifts its content so
// its fingerprint changes like a busy shell.
type demoPane struct {
	id      int
	bounds  termdraw.Rect
	metrics frame.CellMetrics
	top     int
}

func (p *demoPane) ID() int                    { return p.id }
func (p *demoPane) Bounds() termdraw.Rect      { return p.bounds }
func (p *demoPane) ContentFingerprint() uint64 { return uint64(p.id)<<32 | uint64(p.top) }

func (p *demoPane) scrollLine() { p.top++ }

func (p *demoPane) Describe() ([]command.Command, error) {
	cols := int(p.bounds.W / p.metrics.PixelWidth())
	rows := int(p.bounds.H / p.metrics.PixelHeight())

	cmds := []command.Command{
		command.FillRect{Rect: p.bounds, Color: termdraw.RGB(0.05, 0.05, 0.08)},
	}
	for row := 0; row < rows; row++ {
		// A sparse fake line of glyph cells.
		for col := 0; col < cols; col += 3 {
			cell := p.metrics.CellRect(col, row, 1, 1).Translate(p.bounds.X, p.bounds.Y)
			shade := 0.4 + 0.6*float32((row+p.top)%5)/5
			cmds = append(cmds, command.DrawQuad{
				Layer:   1,
				Rect:    cell,
				Texture: termdraw.TextureRect{Right: 1, Bottom: 1},
				FG:      termdraw.RGB(shade, shade, shade),
				Mode:    command.ModeGlyph,
			})
		}
	}
	return cmds, nil
}
