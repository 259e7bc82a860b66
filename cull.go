package worldbox

// DefaultCullMargin is the world-space margin added around the viewport so
// entries entering the screen never pop in at the edge.
const DefaultCullMargin = 64

// Culler marks off-viewport entries invisible without removing them from the
// registry or pool. A rendering/perf optimization only, never a logical
// removal.
//
// The scan is linear in entry count. At the scale this targets that beats
// maintaining a spatial index; a grid or quadtree could replace the scan
// behind the same Recompute signature for much larger worlds.
type Culler struct {
	// Margin expands the viewport before intersection tests.
	Margin float64
}

// NewCuller creates a culler with the default margin.
func NewCuller() *Culler {
	return &Culler{Margin: DefaultCullMargin}
}

// Recompute updates each entry's visibility against the viewport bounds and
// returns the number of visible entries. Entries whose conservative world
// AABB intersects the margin-expanded viewport are shown; all others are
// hidden. Idempotent: the same viewport and entry set always produce the
// same visibility.
//
// A malformed (zero-area) viewport degenerates to all-hidden, which is safe:
// nothing renders.
//
// Entries with an unknown extent are never culled.
func (c *Culler) Recompute(viewport Rect, entries []*Entry) int {
	if viewport.Empty() {
		for _, e := range entries {
			c.setVisible(e, false)
		}
		return 0
	}

	bounds := viewport.Expand(c.Margin)
	visible := 0
	for _, e := range entries {
		w, h := e.renderable.Extent()
		show := true
		if w != 0 || h != 0 {
			show = e.aabb().Intersects(bounds)
		}
		// Unknown extent: can't determine size, don't cull.
		c.setVisible(e, show)
		if show {
			visible++
		}
	}
	return visible
}

func (c *Culler) setVisible(e *Entry, visible bool) {
	e.Visible = visible
	e.renderable.SetVisible(visible)
}
