package geom

import "testing"

func TestRectRightBottom(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	if r.Right() != 110 {
		t.Fatalf("expected Right() 110, got %v", r.Right())
	}
	if r.Bottom() != 70 {
		t.Fatalf("expected Bottom() 70, got %v", r.Bottom())
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !r.Contains(Point{X: 5, Y: 5}) {
		t.Fatalf("expected point inside rect to be contained")
	}
	if r.Contains(Point{X: 10, Y: 10}) {
		t.Fatalf("expected Right/Bottom edge to be exclusive")
	}
}

func TestRoundToPhysical(t *testing.T) {
	got := RoundToPhysical(10.4, 2)
	if got != 10.5 {
		t.Fatalf("expected 10.5 at scale 2, got %v", got)
	}
}

func TestRoundToPhysicalMax1(t *testing.T) {
	if got := RoundToPhysicalMax1(0.2, 1); got != 1 {
		t.Fatalf("expected a positive logical value to round up to at least 1 physical pixel, got %v", got)
	}
	if got := RoundToPhysicalMax1(0, 1); got != 0 {
		t.Fatalf("expected zero to stay zero, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Fatalf("expected in-range value unchanged")
	}
	if Clamp(-5, 0, 10) != 0 {
		t.Fatalf("expected clamp to lower bound")
	}
	if Clamp(50, 0, 10) != 10 {
		t.Fatalf("expected clamp to upper bound")
	}
}
