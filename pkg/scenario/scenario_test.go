package scenario

import (
	"testing"

	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/placement"
)

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`
[items]
count = 10
`), FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Policy.Kind != PolicyMasonry || s.Policy.ColumnWidth != DefaultColumnWidth {
		t.Errorf("policy = %+v, want default masonry", s.Policy)
	}
	if s.Viewport.Width != DefaultViewportWidth || s.Viewport.Height != DefaultViewportHeight {
		t.Errorf("viewport = %+v, want defaults", s.Viewport)
	}
	if s.Items.Kinds != 1 || s.Items.MaxSpan != 1 {
		t.Errorf("items = %+v, want one kind and unit spans", s.Items)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		code   errors.Code
	}{
		{"unknown key", "colour = 'red'", FormatTOML, errors.ErrCodeInvalidScenario},
		{"bad toml", "[policy", FormatTOML, errors.ErrCodeInvalidScenario},
		{"unknown policy", "[policy]\nkind = 'flow'", FormatTOML, errors.ErrCodeInvalidPolicy},
		{"negative width", "[policy]\ncolumn_width = -4", FormatTOML, errors.ErrCodeInvalidInput},
		{"unknown op", "[[steps]]\nop = 'zoom'", FormatTOML, errors.ErrCodeInvalidScenario},
		{"empty append", "[[steps]]\nop = 'append'", FormatTOML, errors.ErrCodeInvalidScenario},
		{"bad resize", "[[steps]]\nop = 'resize'\nwidth = 10", FormatTOML, errors.ErrCodeInvalidScenario},
		{"height order", "[items]\nmin_height = 90\nmax_height = 30", FormatTOML, errors.ErrCodeInvalidScenario},
		{"json unknown field", `{"nme": "x"}`, FormatJSON, errors.ErrCodeInvalidScenario},
		{"format", "", "yaml", errors.ErrCodeInvalidFormat},
		{"span too large", `{"items": {"list": [{"height": 1, "col_span": 100}]}}`, FormatJSON, errors.ErrCodeInvalidScenario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("testdata/feed.toml")
	if err != nil {
		t.Fatalf("Load(feed.toml): %v", err)
	}
	if s.Name != "feed" || s.Items.Count != 400 || len(s.Steps) != 5 {
		t.Errorf("feed = %+v", s)
	}

	g, err := Load("testdata/gallery.json")
	if err != nil {
		t.Fatalf("Load(gallery.json): %v", err)
	}
	if g.Policy.Kind != PolicyGrid || len(g.Items.List) != 3 {
		t.Errorf("gallery = %+v", g)
	}

	if _, err := Load("testdata/missing.toml"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load("testdata/feed\n.toml"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Load(control char) = %v, want INVALID_PATH", err)
	}
}

func TestLoadParentRelative(t *testing.T) {
	s, err := Load("../scenario/testdata/feed.toml")
	if err != nil {
		t.Fatalf("Load(../scenario/testdata/feed.toml): %v", err)
	}
	if s.Name != "feed" {
		t.Errorf("name = %q, want feed", s.Name)
	}
	if _, err := Load("../../examples/scenarios/timeline.toml"); err != nil {
		t.Errorf("Load(examples timeline): %v", err)
	}
}

func TestPolicyBuild(t *testing.T) {
	p, err := PolicySpec{Kind: PolicyGrid, Columns: 3, TileSize: 50}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if g, ok := p.(*placement.SpanGrid); !ok || g.Columns != 3 {
		t.Errorf("Build() = %#v, want 3-column SpanGrid", p)
	}

	p, _ = PolicySpec{Kind: PolicyMasonry, ColumnWidth: 120}.Build()
	if m, ok := p.(*placement.Masonry); !ok || m.ColumnWidth != 120 {
		t.Errorf("Build() = %#v, want Masonry", p)
	}
}

func TestStepLabel(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{Step{Op: OpScroll, Y: 40}, "scroll y=40"},
		{Step{Op: OpResize, Width: 320, Height: 200}, "resize 320x200"},
		{Step{Op: OpAppend, Count: 5}, "append 5"},
		{Step{Op: OpInsert, Index: 2, Items: []Item{{Height: 1}}}, "insert 1 at 2"},
		{Step{Op: OpRemove, Index: 4}, "remove 1 at 4"},
		{Step{Op: OpMove, Index: 1, To: 9}, "move 1 to 9"},
	}
	for _, tt := range tests {
		if got := tt.step.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestSynthDeterministic(t *testing.T) {
	spec := ItemsSpec{Seed: 42, MinHeight: 10, MaxHeight: 200, Kinds: 3, MaxSpan: 2}
	a := newSynth(spec).next(50)
	b := newSynth(spec).next(50)
	for i := range a {
		if *a[i] != *b[i] {
			t.Fatalf("item %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].Height < 10 || a[i].Height > 200 {
			t.Errorf("item %d height %v out of range", i, a[i].Height)
		}
		if a[i].Kind < 1 || a[i].Kind > 3 {
			t.Errorf("item %d kind %d out of range", i, a[i].Kind)
		}
	}
	if c := newSynth(ItemsSpec{Seed: 43, MinHeight: 10, MaxHeight: 200, Kinds: 3}).next(50); *c[0] == *a[0] && *c[1] == *a[1] {
		t.Error("different seeds should produce different items")
	}
}

func TestItemsEdits(t *testing.T) {
	s := &Items{}
	s.Reset(clone([]Item{{Height: 0}, {Height: 1}, {Height: 2}}))
	s.Insert(1, &Item{Height: 9})
	s.Move(0, 3)
	s.Remove(0, 1)

	want := []float64{1, 2, 0}
	for i, w := range want {
		if s.Item(i).Height != w {
			t.Errorf("item %d height = %v, want %v", i, s.Item(i).Height, w)
		}
	}
}
