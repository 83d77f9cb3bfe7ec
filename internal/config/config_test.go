package config

import "testing"

func TestDefaultHasThreePresets(t *testing.T) {
	o := Default()
	if len(o.PresetColumnWidths) != 3 {
		t.Fatalf("expected 3 preset column widths, got %d", len(o.PresetColumnWidths))
	}
	if len(o.PresetWindowHeights) != 3 {
		t.Fatalf("expected 3 preset window heights, got %d", len(o.PresetWindowHeights))
	}
	if o.CenterFocusedColumn != CenterNever {
		t.Fatalf("expected default CenterFocusedColumn to be never, got %v", o.CenterFocusedColumn)
	}
}

func TestAdjustedForScaleRoundsGapsToPhysicalPixels(t *testing.T) {
	o := Default()
	o.Gaps = 15
	adjusted := o.AdjustedForScale(1.5)
	const eps = 1e-9
	phys := adjusted.Gaps * 1.5
	if rounded := float64(int(phys + 0.5)); phys-rounded > eps || rounded-phys > eps {
		t.Fatalf("expected gaps*scale to land on a whole physical pixel count, got %v", phys)
	}
	if adjusted == o {
		t.Fatalf("expected AdjustedForScale to return a distinct copy, not mutate o")
	}
}

func TestEqualDetectsPresetListChange(t *testing.T) {
	a := Default()
	b := Default()
	if !a.Equal(b) {
		t.Fatalf("expected two defaults to be equal")
	}
	b.PresetColumnWidths = b.PresetColumnWidths[:1]
	if a.Equal(b) {
		t.Fatalf("expected a shrunk preset list to break equality")
	}
}

func TestParseOverridesOnlySetFields(t *testing.T) {
	yamlData := []byte("gaps: 32\n")
	o, err := Parse(yamlData)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Gaps != 32 {
		t.Fatalf("expected overridden gaps 32, got %v", o.Gaps)
	}
	if len(o.PresetColumnWidths) != 3 {
		t.Fatalf("expected untouched fields to keep their default, got %d presets", len(o.PresetColumnWidths))
	}
}

func TestParseEmptyYieldsDefaults(t *testing.T) {
	o, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.Equal(Default()) {
		t.Fatalf("expected empty override to parse to exactly the defaults")
	}
}
