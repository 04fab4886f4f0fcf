package arena

import (
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/gpu"
)

func TestQuad_Setters(t *testing.T) {
	dev := gpu.NewMemDevice()
	a, err := New(dev)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	alloc, err := a.Map(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	q := alloc.Allocate()
	q.SetPosition(-10, -20, 30, 40)
	q.SetTexture(termdraw.TextureRect{Left: 0.1, Top: 0.2, Right: 0.3, Bottom: 0.4})
	q.SetFG(termdraw.RGBA(1, 0, 0, 1))
	q.SetAlt(termdraw.RGBA(0, 0, 1, 1), 0.5)
	hsb := termdraw.HSBTransform{Hue: 180, Saturation: 0.5, Brightness: 2}
	q.SetHSB(&hsb)
	q.SetMode(3)
	if err := alloc.Close(); err != nil {
		t.Fatal(err)
	}

	ref, _ := a.ActiveRef(0, 1)
	m, err := ref.Buffer.Map()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	verts := m.Quad(0)

	// Corner order is top-left, top-right, bottom-left, bottom-right.
	wantPos := [4][2]float32{{-10, -20}, {30, -20}, {-10, 40}, {30, 40}}
	for i, want := range wantPos {
		if verts[i].Position != want {
			t.Errorf("vertex %d position = %v, want %v", i, verts[i].Position, want)
		}
	}

	wantTex := [4][2]float32{{0.1, 0.2}, {0.3, 0.2}, {0.1, 0.4}, {0.3, 0.4}}
	for i, want := range wantTex {
		if verts[i].TexCoord != want {
			t.Errorf("vertex %d texcoord = %v, want %v", i, verts[i].TexCoord, want)
		}
	}

	for i := range verts {
		if verts[i].FG != ([4]float32{1, 0, 0, 1}) {
			t.Errorf("vertex %d fg = %v", i, verts[i].FG)
		}
		if verts[i].Alt != ([4]float32{0, 0, 1, 1}) || verts[i].Mix != 0.5 {
			t.Errorf("vertex %d alt/mix = %v/%v", i, verts[i].Alt, verts[i].Mix)
		}
		if verts[i].HSB != ([3]float32{180, 0.5, 2}) {
			t.Errorf("vertex %d hsb = %v", i, verts[i].HSB)
		}
		if verts[i].Mode != 3 {
			t.Errorf("vertex %d mode = %v", i, verts[i].Mode)
		}
	}
}

func TestQuad_NilHSBWritesIdentity(t *testing.T) {
	dev := gpu.NewMemDevice()
	a, err := New(dev)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	alloc, err := a.Map(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	q := alloc.Allocate()
	q.SetHSB(nil)
	if err := alloc.Close(); err != nil {
		t.Fatal(err)
	}

	ref, _ := a.ActiveRef(0, 0)
	m, _ := ref.Buffer.Map()
	defer m.Close()
	got := m.Quad(0)[0].HSB
	if got != ([3]float32{0, 1, 1}) {
		t.Errorf("nil HSB wrote %v, want identity (0, 1, 1)", got)
	}
}
