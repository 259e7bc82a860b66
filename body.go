package worldbox

// Body is an axis-aligned collision body attached to a renderable. Bodies in
// a sandbox world are static scenery: immovable, unaffected by gravity, zero
// velocity. The core only enables, disables, and resizes them.
type Body struct {
	Enabled      bool
	Immovable    bool
	AllowGravity bool
	VelX, VelY   float64
	Bounds       Rect
}

// Enable activates the body with the given bounds in the static-scenery
// configuration: immovable, no gravity, zero velocity.
func (b *Body) Enable(bounds Rect) {
	b.Enabled = true
	b.Immovable = true
	b.AllowGravity = false
	b.VelX = 0
	b.VelY = 0
	b.Bounds = bounds
}

// Disable deactivates the body. Bounds are kept for a later re-enable.
func (b *Body) Disable() {
	b.Enabled = false
	b.VelX = 0
	b.VelY = 0
}

// Resize updates the body's bounds without changing its enabled state.
func (b *Body) Resize(bounds Rect) {
	b.Bounds = bounds
}

// Overlaps reports whether both bodies are enabled and their bounds
// intersect.
func (b *Body) Overlaps(other *Body) bool {
	if other == nil || !b.Enabled || !other.Enabled {
		return false
	}
	return b.Bounds.Intersects(other.Bounds)
}

// ContainsPoint reports whether the body is enabled and contains the world
// point (x, y).
func (b *Body) ContainsPoint(x, y float64) bool {
	return b.Enabled && b.Bounds.Contains(x, y)
}
