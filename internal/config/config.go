// Package config holds the Options snapshot shared by reference across
// every monitor and workspace, loaded from YAML as a set of overrides
// layered onto built-in defaults.
package config

import (
	"fmt"
	"os"

	"paneloom/internal/geom"

	"gopkg.in/yaml.v3"
)

// CenterFocusedColumn selects when the active column is centered in the
// workspace view.
type CenterFocusedColumn string

const (
	CenterNever      CenterFocusedColumn = "never"
	CenterOnOverflow CenterFocusedColumn = "on-overflow"
	CenterAlways     CenterFocusedColumn = "always"
)

// WidthKind distinguishes how a ColumnWidth value is interpreted.
type WidthKind int

const (
	WidthProportion WidthKind = iota
	WidthFixed
	WidthPreset
)

// ColumnWidth is one of: a proportion of the working area, a fixed pixel
// value, or an index into Options.PresetColumnWidths.
type ColumnWidth struct {
	Kind  WidthKind
	Value float64 // proportion (0-1) or fixed pixels
	Index int     // preset index, when Kind == WidthPreset
}

func ProportionWidth(p float64) ColumnWidth { return ColumnWidth{Kind: WidthProportion, Value: p} }
func FixedWidth(px float64) ColumnWidth     { return ColumnWidth{Kind: WidthFixed, Value: px} }
func PresetWidth(i int) ColumnWidth         { return ColumnWidth{Kind: WidthPreset, Index: i} }

// HeightKind is the height counterpart of WidthKind, plus an "auto" state
// that divides remaining space evenly among auto tiles.
type HeightKind int

const (
	HeightAuto HeightKind = iota
	HeightProportion
	HeightFixed
	HeightPreset
)

// PresetSize describes a tile height: auto, a proportion, a fixed pixel
// value, or an index into Options.PresetWindowHeights.
type PresetSize struct {
	Kind  HeightKind
	Value float64
	Index int
}

func AutoHeight() PresetSize                { return PresetSize{Kind: HeightAuto} }
func ProportionHeight(p float64) PresetSize { return PresetSize{Kind: HeightProportion, Value: p} }
func FixedHeight(px float64) PresetSize     { return PresetSize{Kind: HeightFixed, Value: px} }
func PresetHeight(i int) PresetSize         { return PresetSize{Kind: HeightPreset, Index: i} }

// Struts shrink the working area on each side; negative values allow
// content into overscan.
type Struts struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// FocusRing configures the outline drawn around the focused tile.
type FocusRing struct {
	Off   bool    `yaml:"off"`
	Width float64 `yaml:"width"`
}

// Border configures the per-tile border, which inflates effective tile
// size when enabled.
type Border struct {
	Off   bool    `yaml:"off"`
	Width float64 `yaml:"width"`
}

// AnimationParams holds the tunables for one named animation.
type AnimationParams struct {
	AngularFrequency float64 `yaml:"angular_frequency"`
	DampingRatio     float64 `yaml:"damping_ratio"`
	DurationMS       int     `yaml:"duration_ms"`
}

// Animations groups the per-kind animation parameters.
type Animations struct {
	ViewOffset      AnimationParams `yaml:"view_offset"`
	WorkspaceSwitch AnimationParams `yaml:"workspace_switch"`
	WindowResize    AnimationParams `yaml:"window_resize"`
	WindowOpen      AnimationParams `yaml:"window_open"`
	WindowClose     AnimationParams `yaml:"window_close"`
	WindowMove      AnimationParams `yaml:"window_move"`
}

func defaultAnimationParams() AnimationParams {
	return AnimationParams{AngularFrequency: 18, DampingRatio: 1, DurationMS: 250}
}

func defaultAnimations() Animations {
	p := defaultAnimationParams()
	return Animations{
		ViewOffset: p, WorkspaceSwitch: p, WindowResize: p,
		WindowOpen: p, WindowClose: p, WindowMove: p,
	}
}

// Options is the immutable configuration snapshot shared by reference
// across the whole layout. It is
// never mutated in place: a reload produces a new *Options and callers
// swap the pointer.
type Options struct {
	Gaps                     float64             `yaml:"gaps"`
	Struts                   Struts              `yaml:"struts"`
	FocusRingCfg             FocusRing           `yaml:"focus_ring"`
	BorderCfg                Border              `yaml:"border"`
	CenterFocusedColumn      CenterFocusedColumn `yaml:"center_focused_column"`
	AlwaysCenterSingleColumn bool                `yaml:"always_center_single_column"`
	PresetColumnWidths       []ColumnWidth       `yaml:"-"`
	DefaultColumnWidth       *ColumnWidth        `yaml:"-"`
	PresetWindowHeights      []PresetSize        `yaml:"-"`
	Animations               Animations          `yaml:"animations"`
	DisableResizeThrottling  bool                `yaml:"disable_resize_throttling"`
	DisableTransactions      bool                `yaml:"disable_transactions"`
}

// Default returns the built-in default Options: 16px gaps, three preset
// widths at 1/3, 1/2, 2/3, no default column width (new columns then take
// half the working-area width; the window's preferred width is not used),
// never-center.
func Default() *Options {
	return &Options{
		Gaps:                16,
		CenterFocusedColumn: CenterNever,
		PresetColumnWidths: []ColumnWidth{
			ProportionWidth(1.0 / 3.0),
			ProportionWidth(0.5),
			ProportionWidth(2.0 / 3.0),
		},
		PresetWindowHeights: []PresetSize{
			ProportionHeight(1.0 / 3.0),
			ProportionHeight(0.5),
			ProportionHeight(2.0 / 3.0),
		},
		Animations: defaultAnimations(),
	}
}

// AdjustedForScale returns a copy of o with gaps, focus-ring width, and
// border width rounded to whole physical pixels for the given output
// scale. Monitors and workspaces re-derive this on demand; they never
// cache a stale copy across a config reload.
func (o *Options) AdjustedForScale(scale float64) *Options {
	if o == nil {
		return nil
	}
	adjusted := *o
	adjusted.Gaps = geom.RoundToPhysicalMax1(o.Gaps, scale)
	adjusted.FocusRingCfg.Width = geom.RoundToPhysicalMax1(o.FocusRingCfg.Width, scale)
	adjusted.BorderCfg.Width = geom.RoundToPhysicalMax1(o.BorderCfg.Width, scale)
	return &adjusted
}

// Equal reports field-wise equality, used by invariant checks ("every
// monitor's Options equals the layout's Options").
func (o *Options) Equal(other *Options) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Gaps != other.Gaps || o.Struts != other.Struts || o.FocusRingCfg != other.FocusRingCfg ||
		o.BorderCfg != other.BorderCfg || o.CenterFocusedColumn != other.CenterFocusedColumn ||
		o.AlwaysCenterSingleColumn != other.AlwaysCenterSingleColumn ||
		o.Animations != other.Animations || o.DisableResizeThrottling != other.DisableResizeThrottling ||
		o.DisableTransactions != other.DisableTransactions {
		return false
	}
	if len(o.PresetColumnWidths) != len(other.PresetColumnWidths) {
		return false
	}
	for i := range o.PresetColumnWidths {
		if o.PresetColumnWidths[i] != other.PresetColumnWidths[i] {
			return false
		}
	}
	if len(o.PresetWindowHeights) != len(other.PresetWindowHeights) {
		return false
	}
	for i := range o.PresetWindowHeights {
		if o.PresetWindowHeights[i] != other.PresetWindowHeights[i] {
			return false
		}
	}
	if (o.DefaultColumnWidth == nil) != (other.DefaultColumnWidth == nil) {
		return false
	}
	if o.DefaultColumnWidth != nil && *o.DefaultColumnWidth != *other.DefaultColumnWidth {
		return false
	}
	return true
}

// rawOptions mirrors Options for YAML decoding, field by field; pointer
// fields distinguish "unset" from "explicit zero value".
type rawOptions struct {
	Gaps                     *float64             `yaml:"gaps"`
	Struts                   *Struts              `yaml:"struts"`
	FocusRing                *FocusRing           `yaml:"focus_ring"`
	Border                   *Border              `yaml:"border"`
	CenterFocusedColumn      *CenterFocusedColumn `yaml:"center_focused_column"`
	AlwaysCenterSingleColumn *bool                `yaml:"always_center_single_column"`
	PresetColumnWidths       []float64            `yaml:"preset_column_widths"`
	DefaultColumnWidth       *float64             `yaml:"default_column_width"`
	PresetWindowHeights      []float64            `yaml:"preset_window_heights"`
	Animations               *Animations          `yaml:"animations"`
	DisableResizeThrottling  *bool                `yaml:"disable_resize_throttling"`
	DisableTransactions      *bool                `yaml:"disable_transactions"`
}

// Load reads an Options override file and merges it onto Default():
// start from defaults, overlay only the fields the file actually sets.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML bytes onto Default().
func Parse(data []byte) (*Options, error) {
	var raw rawOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	cfg := Default()
	applyRaw(cfg, &raw)
	return cfg, nil
}

func applyRaw(cfg *Options, raw *rawOptions) {
	if raw.Gaps != nil {
		cfg.Gaps = *raw.Gaps
	}
	if raw.Struts != nil {
		cfg.Struts = *raw.Struts
	}
	if raw.FocusRing != nil {
		cfg.FocusRingCfg = *raw.FocusRing
	}
	if raw.Border != nil {
		cfg.BorderCfg = *raw.Border
	}
	if raw.CenterFocusedColumn != nil {
		cfg.CenterFocusedColumn = *raw.CenterFocusedColumn
	}
	if raw.AlwaysCenterSingleColumn != nil {
		cfg.AlwaysCenterSingleColumn = *raw.AlwaysCenterSingleColumn
	}
	if raw.PresetColumnWidths != nil {
		widths := make([]ColumnWidth, len(raw.PresetColumnWidths))
		for i, p := range raw.PresetColumnWidths {
			widths[i] = ProportionWidth(p)
		}
		cfg.PresetColumnWidths = widths
	}
	if raw.DefaultColumnWidth != nil {
		w := ProportionWidth(*raw.DefaultColumnWidth)
		cfg.DefaultColumnWidth = &w
	}
	if raw.PresetWindowHeights != nil {
		heights := make([]PresetSize, len(raw.PresetWindowHeights))
		for i, p := range raw.PresetWindowHeights {
			heights[i] = ProportionHeight(p)
		}
		cfg.PresetWindowHeights = heights
	}
	if raw.Animations != nil {
		cfg.Animations = *raw.Animations
	}
	if raw.DisableResizeThrottling != nil {
		cfg.DisableResizeThrottling = *raw.DisableResizeThrottling
	}
	if raw.DisableTransactions != nil {
		cfg.DisableTransactions = *raw.DisableTransactions
	}
}
