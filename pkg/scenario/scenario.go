package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/placement"
)

// Policy kinds.
const (
	PolicyMasonry = "masonry"
	PolicyGrid    = "grid"
)

// Step operations.
const (
	OpScroll  = "scroll"
	OpResize  = "resize"
	OpAppend  = "append"
	OpInsert  = "insert"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpReset   = "reset"
)

// Input formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Defaults applied to omitted scenario fields.
const (
	DefaultColumnWidth    = 200.0
	DefaultTileSize       = 100.0
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
	DefaultMinHeight      = 60.0
	DefaultMaxHeight      = 240.0
)

// Scenario is a complete, replayable description of one panel.
type Scenario struct {
	Name     string     `toml:"name" json:"name"`
	Policy   PolicySpec `toml:"policy" json:"policy"`
	Viewport Viewport   `toml:"viewport" json:"viewport"`
	Items    ItemsSpec  `toml:"items" json:"items"`
	Steps    []Step     `toml:"steps" json:"steps"`
}

// PolicySpec selects and parameterizes the placement policy.
type PolicySpec struct {
	Kind string `toml:"kind" json:"kind"`

	// Masonry
	ColumnWidth   float64 `toml:"column_width" json:"column_width,omitempty"`
	ColumnSpacing float64 `toml:"column_spacing" json:"column_spacing,omitempty"`
	RowSpacing    float64 `toml:"row_spacing" json:"row_spacing,omitempty"`

	// Grid
	Columns  int     `toml:"columns" json:"columns,omitempty"`
	TileSize float64 `toml:"tile_size" json:"tile_size,omitempty"`
	Spacing  float64 `toml:"spacing" json:"spacing,omitempty"`
}

// Viewport is the initial visible region. Y is the scroll offset.
type Viewport struct {
	Y      float64 `toml:"y" json:"y,omitempty"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// ItemsSpec declares the initial collection: an explicit list, Count
// generated items, or both (the list first).
type ItemsSpec struct {
	List []Item `toml:"list" json:"list,omitempty"`

	Count     int     `toml:"count" json:"count,omitempty"`
	Seed      uint64  `toml:"seed" json:"seed,omitempty"`
	MinHeight float64 `toml:"min_height" json:"min_height,omitempty"`
	MaxHeight float64 `toml:"max_height" json:"max_height,omitempty"`
	// Kinds is the number of distinct container kinds to draw from.
	Kinds int `toml:"kinds" json:"kinds,omitempty"`
	// MaxSpan is the largest column and row span generated for grid items.
	MaxSpan int `toml:"max_span" json:"max_span,omitempty"`
}

// Step is one event applied to the host. Fields are interpreted per Op.
type Step struct {
	Op string `toml:"op" json:"op"`

	// scroll, resize
	Y      float64 `toml:"y" json:"y,omitempty"`
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`

	// append, insert, remove, replace, move, reset
	Index int    `toml:"index" json:"index,omitempty"`
	To    int    `toml:"to" json:"to,omitempty"`
	Count int    `toml:"count" json:"count,omitempty"`
	Items []Item `toml:"items" json:"items,omitempty"`
}

// Label returns a short description of the step for logs and tables.
func (s Step) Label() string {
	switch s.Op {
	case OpScroll:
		return fmt.Sprintf("scroll y=%g", s.Y)
	case OpResize:
		return fmt.Sprintf("resize %gx%g", s.Width, s.Height)
	case OpAppend, OpReset:
		return fmt.Sprintf("%s %d", s.Op, s.size())
	case OpInsert:
		return fmt.Sprintf("insert %d at %d", s.size(), s.Index)
	case OpRemove:
		return fmt.Sprintf("remove %d at %d", max(s.Count, 1), s.Index)
	case OpReplace:
		return fmt.Sprintf("replace %d", s.Index)
	case OpMove:
		return fmt.Sprintf("move %d to %d", s.Index, s.To)
	}
	return s.Op
}

// size is the number of items an insertion step adds.
func (s Step) size() int {
	if len(s.Items) > 0 {
		return len(s.Items)
	}
	return s.Count
}

// Load reads a scenario file. The format follows the extension: .json is
// JSON, anything else TOML.
func Load(path string) (*Scenario, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scenario file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	format := FormatTOML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a scenario, applies defaults and validates it. Unknown keys
// are rejected.
func Parse(data []byte, format string) (*Scenario, error) {
	var s Scenario
	switch format {
	case FormatTOML, "":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format %q", format)
	}
	s.SetDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetDefaults fills omitted fields.
func (s *Scenario) SetDefaults() {
	if s.Name == "" {
		s.Name = "scenario"
	}
	p := &s.Policy
	if p.Kind == "" {
		p.Kind = PolicyMasonry
	}
	if p.Kind == PolicyMasonry && p.ColumnWidth == 0 {
		p.ColumnWidth = DefaultColumnWidth
	}
	if p.Kind == PolicyGrid && p.TileSize == 0 {
		p.TileSize = DefaultTileSize
	}
	if s.Viewport.Width == 0 {
		s.Viewport.Width = DefaultViewportWidth
	}
	if s.Viewport.Height == 0 {
		s.Viewport.Height = DefaultViewportHeight
	}
	it := &s.Items
	if it.MinHeight == 0 {
		it.MinHeight = DefaultMinHeight
	}
	if it.MaxHeight == 0 {
		it.MaxHeight = max(DefaultMaxHeight, it.MinHeight)
	}
	if it.Kinds == 0 {
		it.Kinds = 1
	}
	if it.MaxSpan == 0 {
		it.MaxSpan = 1
	}
}

// Validate checks the scenario. It does not check step indices; those are
// checked against the live collection during replay.
func (s *Scenario) Validate() error {
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	if err := errors.ValidatePositive("viewport width", s.Viewport.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("viewport height", s.Viewport.Height); err != nil {
		return err
	}
	if err := errors.ValidateDimension("viewport y", s.Viewport.Y); err != nil {
		return err
	}
	if err := s.Items.Validate(); err != nil {
		return err
	}
	for i, st := range s.Steps {
		if err := st.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "step %d", i+1)
		}
	}
	return nil
}

// Validate checks the policy kind and its dimensions.
func (p PolicySpec) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"column_width", p.ColumnWidth},
		{"column_spacing", p.ColumnSpacing},
		{"row_spacing", p.RowSpacing},
		{"tile_size", p.TileSize},
		{"spacing", p.Spacing},
	} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return err
		}
	}
	switch p.Kind {
	case PolicyMasonry, PolicyGrid:
	default:
		return errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %q (want %s or %s)", p.Kind, PolicyMasonry, PolicyGrid)
	}
	if p.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidPolicy, "columns cannot be negative")
	}
	return nil
}

// Build returns a fresh placement policy.
func (p PolicySpec) Build() (placement.Policy, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Kind == PolicyGrid {
		return &placement.SpanGrid{Columns: p.Columns, TileSize: p.TileSize, Spacing: p.Spacing}, nil
	}
	return &placement.Masonry{
		ColumnWidth:   p.ColumnWidth,
		ColumnSpacing: p.ColumnSpacing,
		RowSpacing:    p.RowSpacing,
	}, nil
}

// Validate checks the generation parameters and the explicit list.
func (it ItemsSpec) Validate() error {
	if err := errors.ValidateItemCount(it.Count + len(it.List)); err != nil {
		return err
	}
	if err := errors.ValidateDimension("min_height", it.MinHeight); err != nil {
		return err
	}
	if err := errors.ValidateDimension("max_height", it.MaxHeight); err != nil {
		return err
	}
	if it.MaxHeight < it.MinHeight {
		return errors.New(errors.ErrCodeInvalidScenario, "max_height %g is below min_height %g", it.MaxHeight, it.MinHeight)
	}
	if it.Kinds < 1 {
		return errors.New(errors.ErrCodeInvalidScenario, "kinds must be at least 1")
	}
	if err := errors.ValidateSpan("max_span", it.MaxSpan); err != nil {
		return err
	}
	for i, item := range it.List {
		if err := item.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "item %d", i)
		}
	}
	return nil
}

// Validate checks the op and its static arguments.
func (s Step) Validate() error {
	switch s.Op {
	case OpScroll:
		return errors.ValidateDimension("y", s.Y)
	case OpResize:
		if err := errors.ValidatePositive("width", s.Width); err != nil {
			return err
		}
		return errors.ValidatePositive("height", s.Height)
	case OpAppend, OpInsert, OpReset:
		if s.Count < 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "count cannot be negative")
		}
		if s.Op != OpReset && s.size() == 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "%s needs items or a count", s.Op)
		}
	case OpRemove:
		if s.Count < 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "count cannot be negative")
		}
	case OpReplace, OpMove:
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", s.Op)
	}
	if s.Index < 0 || s.To < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "indices cannot be negative")
	}
	for i, item := range s.Items {
		if err := item.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "item %d", i)
		}
	}
	return nil
}
