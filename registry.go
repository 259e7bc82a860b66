package worldbox

// EntryID uniquely identifies a placed entry within a registry's lifetime.
// IDs are monotonically increasing and never reused; zero is never a valid id.
type EntryID uint64

// Entry is a world-resident instance: one placement of a pooled renderable.
// A single flat struct for all placements, with no interface dispatch on the
// hot path.
type Entry struct {
	ID  EntryID
	Key ResourceKey

	// Transform
	X, Y     float64
	Rotation float64 // radians
	ScaleX   float64
	ScaleY   float64

	// Collision reports whether the entry's physics body is enabled.
	Collision bool

	// Z is the explicit draw-order index. Higher draws later (on top).
	Z int

	// Visible is derived state, written only by the culling pass.
	Visible bool

	renderable Renderable
}

// aabb returns the entry's conservative world-space bounding box.
// Zero-size when the renderable cannot report an extent.
func (e *Entry) aabb() Rect {
	w, h := e.renderable.Extent()
	if w == 0 && h == 0 {
		return Rect{}
	}
	return worldAABB(placementTransform(e.X, e.Y, e.Rotation, e.ScaleX, e.ScaleY), w, h)
}

// PlaceOptions customizes a placement. The zero value gives the defaults:
// rotation 0, scale 1, collision enabled, next z-order on top.
type PlaceOptions struct {
	Rotation         float64
	ScaleX, ScaleY   float64 // 0 means 1
	DisableCollision bool
	Z                int
	ExplicitZ        bool // use Z instead of the monotonic default
}

// Registry owns the authoritative set of world instances and mediates all
// transform, selection, and deletion operations, keeping the pool's
// active/inactive partition consistent.
//
// The registry is the single owner of the 1:1 mapping from instance id to
// renderable; the pool only tracks what can be reused. That separation lets
// placement/removal churn during interactive editing avoid engine-level
// allocation churn.
type Registry struct {
	pool *Pool
	diag Diagnostics
	sink EventSink

	entries map[EntryID]*Entry
	order   []EntryID // insertion order; drives export and draw iteration

	nextID   EntryID
	nextZ    int
	selected EntryID // 0 = no selection
}

// NewRegistry creates a registry backed by pool.
// A nil diag falls back to stderr diagnostics.
func NewRegistry(pool *Pool, diag Diagnostics) *Registry {
	return &Registry{
		pool:    pool,
		diag:    defaultDiagnostics(diag),
		entries: make(map[EntryID]*Entry),
	}
}

// SetEventSink sets the sink that receives world events. Nil disables events.
func (r *Registry) SetEventSink(sink EventSink) {
	r.sink = sink
}

func (r *Registry) emit(eventType WorldEventType, e *Entry) {
	if r.sink == nil {
		return
	}
	r.sink.EmitWorldEvent(WorldEvent{
		Type:      eventType,
		ID:        e.ID,
		Key:       e.Key,
		X:         e.X,
		Y:         e.Y,
		Rotation:  e.Rotation,
		ScaleX:    e.ScaleX,
		ScaleY:    e.ScaleY,
		Collision: e.Collision,
		Z:         e.Z,
	})
}

// Place creates a new entry for key at (x, y) and returns its id.
// opts may be nil for the defaults. Collision is enabled unless opts says
// otherwise; z-order increases monotonically unless explicit.
//
// The returned error wraps [ErrResourceUnavailable] when the pool cannot
// construct a renderable for key.
func (r *Registry) Place(key ResourceKey, x, y float64, opts *PlaceOptions) (EntryID, error) {
	if opts == nil {
		opts = &PlaceOptions{}
	}

	renderable, err := r.pool.Acquire(key, x, y)
	if err != nil {
		return 0, err
	}

	r.nextID++
	e := &Entry{
		ID:        r.nextID,
		Key:       key,
		X:         x,
		Y:         y,
		Rotation:  opts.Rotation,
		ScaleX:    opts.ScaleX,
		ScaleY:    opts.ScaleY,
		Collision: !opts.DisableCollision,
		Visible:   true,

		renderable: renderable,
	}
	if e.ScaleX == 0 {
		e.ScaleX = 1
	}
	if e.ScaleY == 0 {
		e.ScaleY = 1
	}
	if opts.ExplicitZ {
		e.Z = opts.Z
		if opts.Z >= r.nextZ {
			r.nextZ = opts.Z + 1
		}
	} else {
		e.Z = r.nextZ
		r.nextZ++
	}

	r.applyTransform(e)
	if !e.Collision {
		renderable.SetPhysicsEnabled(false)
	}

	r.entries[e.ID] = e
	r.order = append(r.order, e.ID)
	r.emit(EventPlaced, e)
	return e.ID, nil
}

// applyTransform pushes the entry's stored transform to the live renderable
// so no frame can observe one updated and not the other.
func (r *Registry) applyTransform(e *Entry) {
	e.renderable.SetPosition(e.X, e.Y)
	e.renderable.SetRotation(e.Rotation)
	e.renderable.SetScale(e.ScaleX, e.ScaleY)
	if e.Collision {
		e.renderable.SyncBodyToBounds()
	}
}

// Remove deletes the entry with id, returning its renderable to the pool
// first so there is never a state where the renderable is neither active for
// the entry nor back in the pool. Returns [ErrNotFound] when id is absent.
func (r *Registry) Remove(id EntryID) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	if e.renderable == nil {
		r.diag.Errorf("invariant violation: entry %d has no renderable", id)
		return nil
	}
	if r.selected == id {
		r.Deselect()
	}

	r.pool.Release(e.renderable, e.Key)
	e.renderable = nil
	delete(r.entries, id)
	r.removeFromOrder(id)
	r.emit(EventRemoved, e)
	return nil
}

// removeFromOrder deletes id from the insertion-order slice.
// Uses copy+zero to avoid retaining the trailing element.
func (r *Registry) removeFromOrder(id EntryID) {
	for i, oid := range r.order {
		if oid == id {
			copy(r.order[i:], r.order[i+1:])
			r.order[len(r.order)-1] = 0
			r.order = r.order[:len(r.order)-1]
			return
		}
	}
}

// Move sets the entry's world position. Returns [ErrNotFound] when id is
// absent.
func (r *Registry) Move(id EntryID, x, y float64) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.X = x
	e.Y = y
	r.applyTransform(e)
	r.emit(EventMoved, e)
	return nil
}

// Rotate sets the entry's rotation in radians. Returns [ErrNotFound] when id
// is absent.
func (r *Registry) Rotate(id EntryID, radians float64) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.Rotation = radians
	r.applyTransform(e)
	r.emit(EventTransformed, e)
	return nil
}

// Scale sets the entry's non-uniform scale. Returns [ErrNotFound] when id is
// absent.
func (r *Registry) Scale(id EntryID, sx, sy float64) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.ScaleX = sx
	e.ScaleY = sy
	r.applyTransform(e)
	r.emit(EventTransformed, e)
	return nil
}

// SetCollisionEnabled toggles the entry's collision flag and its physics
// body, resizing the body to the current visual bounds when enabling.
// Returns [ErrNotFound] when id is absent.
func (r *Registry) SetCollisionEnabled(id EntryID, enabled bool) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.Collision = enabled
	e.renderable.SetPhysicsEnabled(enabled)
	if enabled {
		e.renderable.SyncBodyToBounds()
	}
	r.emit(EventCollisionChanged, e)
	return nil
}

// Select makes id the selected entry, implicitly deselecting any previous
// selection. At most one entry is selected at a time; selection has no
// effect on pooling. Returns [ErrNotFound] when id is absent.
func (r *Registry) Select(id EntryID) error {
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	if r.selected == id {
		return nil
	}
	if r.selected != 0 {
		r.Deselect()
	}
	r.selected = id
	r.emit(EventSelected, e)
	return nil
}

// Deselect clears the selection. No-op when nothing is selected.
func (r *Registry) Deselect() {
	if r.selected == 0 {
		return
	}
	e := r.entries[r.selected]
	r.selected = 0
	if e != nil {
		r.emit(EventDeselected, e)
	}
}

// Selected returns the selected entry's id, or (0, false) when nothing is
// selected.
func (r *Registry) Selected() (EntryID, bool) {
	return r.selected, r.selected != 0
}

// Clear removes every entry, equivalent to Remove on all ids. Used for
// "new world" resets.
func (r *Registry) Clear() {
	// Remove mutates r.order; iterate a snapshot.
	ids := append([]EntryID(nil), r.order...)
	for _, id := range ids {
		_ = r.Remove(id)
	}
}

// Get returns the entry with id. The returned entry must be treated as
// read-only; mutate through registry operations so the live renderable stays
// in sync.
func (r *Registry) Get(id EntryID) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns all entries in insertion order. The returned slice is
// owned by the caller; the entries are not.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// EntryAt returns the topmost (highest z) entry whose bounding box contains
// the world point (x, y), or (0, false) when none does. Used for pointer
// picking.
func (r *Registry) EntryAt(x, y float64) (EntryID, bool) {
	var best *Entry
	for _, id := range r.order {
		e := r.entries[id]
		box := e.aabb()
		if box.Empty() || !box.Contains(x, y) {
			continue
		}
		if best == nil || e.Z >= best.Z {
			best = e
		}
	}
	if best == nil {
		return 0, false
	}
	return best.ID, true
}
