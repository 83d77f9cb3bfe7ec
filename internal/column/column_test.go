package column

import (
	"testing"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle/fake"
	"paneloom/internal/tile"
)

func newTestTile(id uint64) *tile.Tile {
	w := fake.NewWindow(id, 100, 100)
	return tile.New(w, geom.Rect{}, 0)
}

func TestResolveWidthProportion(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	got := c.ResolveWidth(1000, nil, 0)
	if got != 500 {
		t.Fatalf("expected 500, got %v", got)
	}
}

func TestResolveWidthPreset(t *testing.T) {
	presets := []config.ColumnWidth{
		config.ProportionWidth(1.0 / 3.0),
		config.ProportionWidth(0.5),
		config.ProportionWidth(2.0 / 3.0),
	}
	c := New(newTestTile(1), config.PresetWidth(2))
	got := c.ResolveWidth(900, presets, 0)
	if got != 600 {
		t.Fatalf("expected 600 (2/3 of 900), got %v", got)
	}
}

func TestResolveWidthFixedClampedToWorkingArea(t *testing.T) {
	c := New(newTestTile(1), config.FixedWidth(5000))
	got := c.ResolveWidth(1000, nil, 0)
	if got != 1000 {
		t.Fatalf("expected fixed width clamped to working area width, got %v", got)
	}
}

func TestToggleFullWidthOverride(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	c.FullWidth = true
	got := c.ResolveWidth(1000, nil, 0)
	if got != 1000 {
		t.Fatalf("expected full-width override to return working area width, got %v", got)
	}
}

func TestResolveHeightsAutoSplitsEvenly(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	c.InsertTile(1, newTestTile(2), config.AutoHeight())
	heights := c.ResolveHeights(1000, 0, nil, nil)
	if len(heights) != 2 {
		t.Fatalf("expected 2 heights, got %d", len(heights))
	}
	if heights[0] != 500 || heights[1] != 500 {
		t.Fatalf("expected even auto split of 500/500, got %v", heights)
	}
}

func TestResolveHeightsFixedThenAutoAbsorbsRemainder(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	c.Heights[0] = config.FixedHeight(200)
	c.InsertTile(1, newTestTile(2), config.AutoHeight())
	heights := c.ResolveHeights(1000, 0, nil, nil)
	if heights[0] != 200 {
		t.Fatalf("expected fixed tile to keep its 200px, got %v", heights[0])
	}
	if heights[1] != 800 {
		t.Fatalf("expected auto tile to absorb the remaining 800px, got %v", heights[1])
	}
}

func TestResolveHeightsSingleSurvivorResetsToAuto(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	c.Heights[0] = config.FixedHeight(200)
	heights := c.ResolveHeights(1000, 0, nil, nil)
	if heights[0] != 1000 {
		t.Fatalf("expected sole survivor to reset to auto and take all available height, got %v", heights[0])
	}
}

func TestRemoveTileAtEmptiesColumn(t *testing.T) {
	c := New(newTestTile(1), config.ProportionWidth(0.5))
	c.RemoveTileAt(0)
	if !c.IsEmpty() {
		t.Fatalf("expected column to be empty after removing its only tile")
	}
}
