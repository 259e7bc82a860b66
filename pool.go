package worldbox

// Pool amortizes the cost of creating and destroying renderable+physics
// instances by reusing them across placements of the same resource key.
//
// Free lists are LIFO: the most-recently-released renderable is reused
// first, since it is most likely still warm (positioned reasonably,
// texture-bound). The pool tracks only free/inactive renderables plus an
// active count; which world entries exist is the registry's business.
type Pool struct {
	factory Factory
	diag    Diagnostics

	free map[ResourceKey][]Renderable
	// active maps every renderable currently handed out to its resource key.
	// Used to detect double-release and to answer Stats; disjoint from the
	// free lists at all times.
	active map[Renderable]ResourceKey
}

// NewPool creates a pool that constructs renderables with factory.
// A nil diag falls back to stderr diagnostics.
func NewPool(factory Factory, diag Diagnostics) *Pool {
	return &Pool{
		factory: factory,
		diag:    defaultDiagnostics(diag),
		free:    make(map[ResourceKey][]Renderable),
		active:  make(map[Renderable]ResourceKey),
	}
}

// Acquire returns a renderable for key at world position (x, y), reusing the
// most recently released one when available and constructing otherwise.
//
// The returned renderable is always a clean slate regardless of prior
// history: requested position, rotation 0, scale 1, full opacity, no tint,
// no attached data, physics enabled as an immovable non-gravity body with
// zero velocity, visible.
//
// The only failure mode is construction for an unresolved key, reported as
// an error wrapping [ErrResourceUnavailable].
func (p *Pool) Acquire(key ResourceKey, x, y float64) (Renderable, error) {
	stack := p.free[key]
	if n := len(stack); n > 0 {
		r := stack[n-1]
		stack[n-1] = nil // avoid retaining a dangling reference
		p.free[key] = stack[:n-1]
		p.resetToCleanSlate(r, x, y)
		p.active[r] = key
		return r, nil
	}

	r, err := p.factory(key, x, y)
	if err != nil {
		return nil, err
	}
	p.resetToCleanSlate(r, x, y)
	p.active[r] = key
	return r, nil
}

// resetToCleanSlate normalizes a renderable to the Acquire contract.
// Applied to fresh constructions too, so the guarantee never depends on
// factory behavior.
func (p *Pool) resetToCleanSlate(r Renderable, x, y float64) {
	r.SetPosition(x, y)
	r.SetRotation(0)
	r.SetScale(1, 1)
	r.ResetVisualState()
	r.SetUserData(nil)
	r.SetPhysicsEnabled(true)
	r.SetInteractive(true)
	r.SetVisible(true)
}

// Release returns a renderable to the free list for key. No-op if r is nil.
// After Release the renderable is invisible, non-colliding, and untouched
// until a future Acquire.
//
// Releasing a renderable the pool does not consider active is a programming
// error: it is logged loudly and the operation aborts with no mutation.
func (p *Pool) Release(r Renderable, key ResourceKey) {
	if r == nil {
		return
	}
	activeKey, ok := p.active[r]
	if !ok {
		p.diag.Errorf("invariant violation: release of renderable not active in pool (key %q)", key)
		return
	}
	if activeKey != key {
		p.diag.Errorf("invariant violation: release key %q does not match acquire key %q", key, activeKey)
		return
	}

	r.StopAnimation()
	r.SetPhysicsEnabled(false)
	r.SetInteractive(false)
	r.SetUserData(nil)
	r.SetVisible(false)

	delete(p.active, r)
	p.free[key] = append(p.free[key], r)
}

// Prewarm constructs count inactive renderables for key ahead of demand,
// paying allocation cost up front to avoid first-use latency. Soft-fails
// with a warning when the key cannot be resolved; never returns an error.
func (p *Pool) Prewarm(key ResourceKey, count int) {
	for i := 0; i < count; i++ {
		r, err := p.factory(key, 0, 0)
		if err != nil {
			p.diag.Warnf("prewarm %q skipped: %v", key, err)
			return
		}
		r.SetPhysicsEnabled(false)
		r.SetInteractive(false)
		r.SetVisible(false)
		p.free[key] = append(p.free[key], r)
	}
}

// Clear permanently destroys all free-list renderables for key. Active
// renderables are owned by the registry and are not affected; release them
// first if they should be destroyed too.
func (p *Pool) Clear(key ResourceKey) {
	for _, r := range p.free[key] {
		r.Dispose()
	}
	delete(p.free, key)
}

// ClearAll permanently destroys the free-list renderables of every key.
func (p *Pool) ClearAll() {
	for key := range p.free {
		p.Clear(key)
	}
}

// PoolKeyStats is the per-key breakdown returned by Stats.
type PoolKeyStats struct {
	Pooled int // inactive renderables on the free list
	Active int // renderables currently handed out
}

// PoolStats reports pool occupancy. Diagnostics only, not correctness.
type PoolStats struct {
	Pools  int // number of resource keys with a free list
	Pooled int // total inactive renderables across all free lists
	Active int // total renderables currently handed out
	PerKey map[ResourceKey]PoolKeyStats
}

// Stats returns a snapshot of pool occupancy.
func (p *Pool) Stats() PoolStats {
	stats := PoolStats{
		Pools:  len(p.free),
		PerKey: make(map[ResourceKey]PoolKeyStats),
	}
	for key, stack := range p.free {
		ks := stats.PerKey[key]
		ks.Pooled = len(stack)
		stats.PerKey[key] = ks
		stats.Pooled += len(stack)
	}
	for _, key := range p.active {
		ks := stats.PerKey[key]
		ks.Active++
		stats.PerKey[key] = ks
		stats.Active++
	}
	return stats
}
