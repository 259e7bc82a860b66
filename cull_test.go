package worldbox

import (
	"math"
	"testing"
)

func TestCullMarksOffscreenHidden(t *testing.T) {
	// Scenario C: entry far outside a (0,0)-(100,100) viewport is hidden,
	// then shown once the viewport moves over it.
	reg, _, src, _ := newTestRegistry(t, "tree")
	culler := &Culler{Margin: 0}

	reg.Place("tree", 500, 500, nil)

	visible := culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries())
	if visible != 0 {
		t.Fatalf("visible = %d, want 0", visible)
	}
	e := reg.Entries()[0]
	if e.Visible || src.constructed[0].visible {
		t.Error("offscreen entry should be hidden on entry and renderable")
	}

	visible = culler.Recompute(Rect{X: 450, Y: 450, Width: 100, Height: 100}, reg.Entries())
	if visible != 1 {
		t.Fatalf("visible = %d after camera move, want 1", visible)
	}
	if !e.Visible || !src.constructed[0].visible {
		t.Error("entry under the viewport should be visible")
	}
}

func TestCullNeverRemovesEntries(t *testing.T) {
	// P5: culling is a rendering optimization, never a logical removal.
	reg, pool, _, _ := newTestRegistry(t, "tree")
	culler := NewCuller()

	for i := 0; i < 10; i++ {
		reg.Place("tree", float64(i)*1000, 0, nil)
	}
	culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries())

	if reg.Len() != 10 {
		t.Errorf("registry len = %d after cull, want 10", reg.Len())
	}
	if pool.Stats().Active != 10 {
		t.Errorf("active = %d after cull, want 10 (hidden, not released)", pool.Stats().Active)
	}
}

func TestCullIdempotent(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")
	culler := NewCuller()

	reg.Place("tree", 50, 50, nil)
	reg.Place("tree", 5000, 5000, nil)

	view := Rect{X: 0, Y: 0, Width: 200, Height: 200}
	first := culler.Recompute(view, reg.Entries())
	firstStates := []bool{reg.Entries()[0].Visible, reg.Entries()[1].Visible}
	second := culler.Recompute(view, reg.Entries())

	if first != second {
		t.Errorf("visible counts differ across identical recomputes: %d vs %d", first, second)
	}
	for i, e := range reg.Entries() {
		if e.Visible != firstStates[i] {
			t.Errorf("entry %d visibility changed on identical recompute", i)
		}
	}
}

func TestCullMarginPreventsEdgePopIn(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")
	culler := &Culler{Margin: 64}

	// 32x32 entry just past the right edge, inside the margin.
	reg.Place("tree", 120, 0, nil)

	if got := culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries()); got != 1 {
		t.Errorf("entry within the cull margin should stay visible, got %d", got)
	}

	strict := &Culler{Margin: 0}
	if got := strict.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries()); got != 0 {
		t.Errorf("entry outside an unexpanded viewport should hide, got %d", got)
	}
}

func TestCullZeroAreaViewportHidesAll(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")
	culler := NewCuller()

	reg.Place("tree", 10, 10, nil)
	reg.Place("tree", 20, 20, nil)

	if got := culler.Recompute(Rect{}, reg.Entries()); got != 0 {
		t.Errorf("zero-area viewport: visible = %d, want 0", got)
	}
	for _, e := range reg.Entries() {
		if e.Visible {
			t.Error("zero-area viewport should hide every entry")
		}
	}
	if reg.Len() != 2 {
		t.Error("degenerate viewport must not remove entries")
	}
}

func TestCullUnknownExtentNeverCulled(t *testing.T) {
	src := newFakeSource()
	src.sizes["blank"] = Vec2{} // zero extent: size unknown
	diag := &recordingDiag{}
	pool := NewPool(src.factory, diag)
	reg := NewRegistry(pool, diag)
	culler := NewCuller()

	reg.Place("blank", 99999, 99999, nil)
	if got := culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries()); got != 1 {
		t.Errorf("unknown-extent entry was culled")
	}
}

func TestCullRotatedEntryConservative(t *testing.T) {
	// A rotated 32x32 entry whose corner sweeps into the viewport must be
	// visible even though its unrotated box would not intersect.
	reg, _, _, _ := newTestRegistry(t, "tree")
	culler := &Culler{Margin: 0}

	id, _ := reg.Place("tree", 100, -40, nil)
	reg.Rotate(id, math.Pi/4)

	if got := culler.Recompute(Rect{X: 0, Y: 0, Width: 200, Height: 100}, reg.Entries()); got != 1 {
		t.Error("rotated entry intersecting the viewport was culled")
	}
}

func TestCullScaledEntry(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")
	culler := &Culler{Margin: 0}

	// At scale 10 the 32x32 entry spans 320 units and reaches the viewport.
	id, _ := reg.Place("tree", 150, 0, nil)
	reg.Scale(id, 10, 10)

	if got := culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries()); got != 0 {
		// Entry spans x 150..470: still outside a 100-wide viewport.
		t.Errorf("scaled entry outside viewport: visible = %d, want 0", got)
	}

	reg.Move(id, 50, 0)
	if got := culler.Recompute(Rect{X: 0, Y: 0, Width: 100, Height: 100}, reg.Entries()); got != 1 {
		t.Error("scaled entry overlapping viewport was culled")
	}
}

func BenchmarkCullRecompute(b *testing.B) {
	src := newFakeSource("tree")
	diag := &recordingDiag{}
	pool := NewPool(src.factory, diag)
	reg := NewRegistry(pool, diag)
	culler := NewCuller()

	for i := 0; i < 5000; i++ {
		reg.Place("tree", float64(i%100)*50, float64(i/100)*50, nil)
	}
	entries := reg.Entries()
	view := Rect{X: 0, Y: 0, Width: 800, Height: 600}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		culler.Recompute(view, entries)
	}
}
