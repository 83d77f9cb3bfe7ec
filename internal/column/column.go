// Package column implements a vertical stack of tiles sharing a width.
// Width and height specs resolve against the working area on demand;
// nothing here caches derived geometry.
package column

import (
	"math"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/tile"
)

// Column is a non-empty ordered sequence of tiles sharing a width.
type Column struct {
	Tiles         []*tile.Tile
	Heights       []config.PresetSize // parallel to Tiles
	Width         config.ColumnWidth
	FullWidth     bool
	Fullscreen    bool
	ActiveTileIdx int
}

// New creates a column containing a single tile at the given width. The
// width is stored as given; New does not consult the configured default
// column width or the tile's current size.
func New(t *tile.Tile, width config.ColumnWidth) *Column {
	return &Column{
		Tiles:         []*tile.Tile{t},
		Heights:       []config.PresetSize{config.AutoHeight()},
		Width:         width,
		ActiveTileIdx: 0,
	}
}

// ActiveTile returns the tile at ActiveTileIdx.
func (c *Column) ActiveTile() *tile.Tile {
	if len(c.Tiles) == 0 {
		return nil
	}
	return c.Tiles[c.ActiveTileIdx]
}

// InsertTile inserts t with height spec h at row idx, clamping idx into
// range and updating ActiveTileIdx to keep pointing at the same logical
// tile if it shifted.
func (c *Column) InsertTile(idx int, t *tile.Tile, h config.PresetSize) {
	idx = geom.ClampInt(idx, 0, len(c.Tiles))
	c.Tiles = append(c.Tiles, nil)
	copy(c.Tiles[idx+1:], c.Tiles[idx:])
	c.Tiles[idx] = t
	c.Heights = append(c.Heights, config.PresetSize{})
	copy(c.Heights[idx+1:], c.Heights[idx:])
	c.Heights[idx] = h
	if idx <= c.ActiveTileIdx {
		c.ActiveTileIdx++
	}
}

// RemoveTileAt removes the tile at idx and returns it. The caller is
// responsible for destroying the column if this empties it (ownership:
// "A Workspace... destroyed only when...").
func (c *Column) RemoveTileAt(idx int) *tile.Tile {
	if idx < 0 || idx >= len(c.Tiles) {
		return nil
	}
	removed := c.Tiles[idx]
	c.Tiles = append(c.Tiles[:idx], c.Tiles[idx+1:]...)
	c.Heights = append(c.Heights[:idx], c.Heights[idx+1:]...)
	if c.ActiveTileIdx >= len(c.Tiles) {
		c.ActiveTileIdx = len(c.Tiles) - 1
	}
	if c.ActiveTileIdx < 0 {
		c.ActiveTileIdx = 0
	}
	if idx < c.ActiveTileIdx || (idx == c.ActiveTileIdx && idx > 0) {
		if idx < c.ActiveTileIdx {
			c.ActiveTileIdx--
		}
	}
	return removed
}

// IsEmpty reports whether the column has no tiles left.
func (c *Column) IsEmpty() bool { return len(c.Tiles) == 0 }

// ResolveWidth resolves the column's width spec against the working-area
// width:
//
//	Proportion(p) -> round(p*W)
//	Preset(i)     -> resolve the indexed preset identically
//	Fixed(px)     -> as given, then clamped to [minBorders, W]
//	FullWidth overrides to W.
func (c *Column) ResolveWidth(workingAreaWidth float64, presets []config.ColumnWidth, minBorders float64) float64 {
	if c.FullWidth {
		return workingAreaWidth
	}
	w := c.Width
	if w.Kind == config.WidthPreset {
		if w.Index < 0 || w.Index >= len(presets) {
			w = config.ProportionWidth(0.5)
		} else {
			w = presets[w.Index]
			// A preset may itself (recursively, at most once in practice)
			// be a preset reference; resolve proportion/fixed only, since
			// presets are not nested further.
			if w.Kind == config.WidthPreset {
				w = config.ProportionWidth(0.5)
			}
		}
	}
	switch w.Kind {
	case config.WidthProportion:
		return geom.Clamp(math.Round(w.Value*workingAreaWidth), minBorders, workingAreaWidth)
	case config.WidthFixed:
		return geom.Clamp(w.Value, minBorders, workingAreaWidth)
	default:
		return geom.Clamp(math.Round(0.5*workingAreaWidth), minBorders, workingAreaWidth)
	}
}

// TogglePresetWidth cycles Width through presets, wrapping, and clears
// FullWidth (toggle_width in).
func (c *Column) TogglePresetWidth(presets []config.ColumnWidth) {
	c.FullWidth = false
	if len(presets) == 0 {
		return
	}
	cur := 0
	if c.Width.Kind == config.WidthPreset {
		cur = (c.Width.Index + 1) % len(presets)
	}
	c.Width = config.PresetWidth(cur)
}

// SetWidth sets an explicit width (set_column_width) and clears FullWidth.
func (c *Column) SetWidth(w config.ColumnWidth) {
	c.FullWidth = false
	c.Width = w
}

// ResolveHeights distributes availableHeight among Heights: fixed tiles
// consume their pixel value (clamped), proportional
// tiles consume p*(H-B) (clamped), the remainder is split evenly among
// auto tiles (clamped). If clamping forces over-subscription, the
// shortfall is absorbed by auto tiles first, then proportional, then
// fixed; if no auto tile exists and only one proportional/fixed tile
// survives, it resets to auto (weight 1).
//
// minMax returns the (min, max) pixel bounds for tile i; both may be 0/
// +Inf to mean "unbounded".
func (c *Column) ResolveHeights(availableHeight, gapsAndBorders float64, presets []config.PresetSize, minMax func(i int) (float64, float64)) []float64 {
	n := len(c.Tiles)
	if n == 0 {
		return nil
	}
	h := geom.Clamp(availableHeight-gapsAndBorders, 0, math.MaxFloat64)

	kinds := make([]config.HeightKind, n)
	raw := make([]float64, n)
	for i, hs := range c.Heights {
		k := hs.Kind
		if k == config.HeightPreset {
			if hs.Index < 0 || hs.Index >= len(presets) {
				k = config.HeightAuto
			} else {
				resolved := presets[hs.Index]
				if resolved.Kind == config.HeightPreset {
					k = config.HeightAuto
				} else {
					k = resolved.Kind
					hs = resolved
				}
			}
		}
		kinds[i] = k
		switch k {
		case config.HeightFixed:
			raw[i] = hs.Value
		case config.HeightProportion:
			raw[i] = hs.Value * h
		default:
			raw[i] = 0
		}
	}

	// If every non-auto tile is gone (single-survivor rule), reset it to
	// auto so at least one tile always absorbs remaining space.
	autoCount := 0
	for _, k := range kinds {
		if k == config.HeightAuto {
			autoCount++
		}
	}
	if autoCount == 0 && n == 1 {
		kinds[0] = config.HeightAuto
		raw[0] = 0
	}

	mins := make([]float64, n)
	maxs := make([]float64, n)
	usedFixedProp := 0.0
	autoIdx := []int{}
	for i := 0; i < n; i++ {
		mn, mx := 0.0, math.MaxFloat64
		if minMax != nil {
			mn, mx = minMax(i)
		}
		mins[i], maxs[i] = mn, mx
		if kinds[i] != config.HeightAuto {
			raw[i] = geom.Clamp(raw[i], mn, mx)
			usedFixedProp += raw[i]
		} else {
			autoIdx = append(autoIdx, i)
		}
	}

	remaining := h - usedFixedProp
	if len(autoIdx) > 0 {
		share := remaining / float64(len(autoIdx))
		if share < 0 {
			share = 0
		}
		for _, i := range autoIdx {
			raw[i] = geom.Clamp(share, mins[i], maxs[i])
		}
	}
	// Still over-subscribed once auto tiles are at their minimum (or there
	// are none): shrink proportional tiles first, then fixed, spreading
	// the shortfall evenly and re-clamping.
	if total := sum(raw); total > h {
		absorbShortfall(raw, mins, maxs, kinds, total-h, config.HeightProportion)
		totalAfterProp := sum(raw)
		if totalAfterProp > h {
			absorbShortfall(raw, mins, maxs, kinds, totalAfterProp-h, config.HeightFixed)
		}
	}

	return raw
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func absorbShortfall(raw, mins, maxs []float64, kinds []config.HeightKind, shortfall float64, target config.HeightKind) {
	if shortfall <= 0 {
		return
	}
	idxs := []int{}
	for i, k := range kinds {
		if k == target {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return
	}
	per := shortfall / float64(len(idxs))
	for _, i := range idxs {
		raw[i] = geom.Clamp(raw[i]-per, mins[i], maxs[i])
	}
}
