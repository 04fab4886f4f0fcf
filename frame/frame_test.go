package frame

import (
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/command"
)

func TestNewCacheKey_Sensitivity(t *testing.T) {
	bounds := termdraw.XYWH(0, 0, 800, 600)
	gen := Generations{Palette: 1, Config: 1}
	base := NewCacheKey(42, bounds, false, gen)

	tests := []struct {
		name string
		key  CacheKey
	}{
		{"fingerprint", NewCacheKey(43, bounds, false, gen)},
		{"bounds", NewCacheKey(42, termdraw.XYWH(0, 0, 800, 601), false, gen)},
		{"active", NewCacheKey(42, bounds, true, gen)},
		{"palette generation", NewCacheKey(42, bounds, false, Generations{Palette: 2, Config: 1})},
		{"config generation", NewCacheKey(42, bounds, false, Generations{Palette: 1, Config: 2})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Errorf("changing %s did not change the key", tt.name)
			}
		})
	}

	if NewCacheKey(42, bounds, false, gen) != base {
		t.Error("identical inputs produced different keys")
	}
}

func TestChrome_Commands(t *testing.T) {
	c := Chrome{
		TabBar:  []command.Command{command.FillRect{Rect: termdraw.XYWH(0, 0, 800, 20)}},
		Borders: []command.Command{command.FillRect{}, command.FillRect{}},
		Modal:   []command.Command{command.Nop{}},
	}
	got := c.Commands()
	if len(got) != 4 {
		t.Fatalf("Commands length = %d, want 4", len(got))
	}
	// Paint order: tab bar first, modal last.
	if fr, ok := got[0].(command.FillRect); !ok || fr.Rect.H != 20 {
		t.Error("tab bar not first in paint order")
	}
	if _, ok := got[3].(command.Nop); !ok {
		t.Error("modal not last in paint order")
	}
}

func TestChrome_CommandsEmpty(t *testing.T) {
	if got := (Chrome{}).Commands(); len(got) != 0 {
		t.Errorf("empty chrome produced %d commands", len(got))
	}
}
