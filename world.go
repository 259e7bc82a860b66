package worldbox

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// cullCadence is how many frames may elapse between cull passes when the
// camera is still. Catches entries that moved without a camera change.
const cullCadence = 30

// Drawer is implemented by renderables that can draw themselves to an ebiten
// image under a camera view matrix. Renderables that don't implement Drawer
// (e.g. test stubs) are skipped by World.Draw.
type Drawer interface {
	Draw(screen *ebiten.Image, view [6]float64)
}

// World ties the pool, registry, culler, and camera into a frame-loop
// orchestrator. All methods must be called from the engine's single logical
// thread; operations apply in call order.
type World struct {
	pool     *Pool
	registry *Registry
	culler   *Culler
	camera   *Camera
	diag     Diagnostics

	frame   int
	drawBuf []*Entry // reused z-sort buffer
}

// NewWorld creates a world whose renderables are constructed by factory and
// whose camera renders into viewport. A nil diag falls back to stderr
// diagnostics.
func NewWorld(factory Factory, viewport Rect, diag Diagnostics) *World {
	diag = defaultDiagnostics(diag)
	pool := NewPool(factory, diag)
	return &World{
		pool:     pool,
		registry: NewRegistry(pool, diag),
		culler:   NewCuller(),
		camera:   NewCamera(viewport),
		diag:     diag,
	}
}

// Pool returns the world's object pool.
func (w *World) Pool() *Pool {
	return w.pool
}

// Registry returns the world's placement registry.
func (w *World) Registry() *Registry {
	return w.registry
}

// Camera returns the world's camera.
func (w *World) Camera() *Camera {
	return w.camera
}

// Culler returns the world's culler, for margin tuning.
func (w *World) Culler() *Culler {
	return w.culler
}

// Update advances the camera by dt seconds and recomputes visibility when
// the camera changed or the recompute cadence elapsed.
func (w *World) Update(dt float32) {
	changed := w.camera.update(dt)
	w.frame++
	if changed || w.frame%cullCadence == 0 {
		w.culler.Recompute(w.camera.VisibleBounds(), w.registry.Entries())
	}
}

// RecomputeVisibility runs the cull pass immediately with the current camera
// bounds. Useful after bulk registry changes (e.g. a world load) when
// waiting for the next Update would show a stale frame.
func (w *World) RecomputeVisibility() int {
	return w.culler.Recompute(w.camera.VisibleBounds(), w.registry.Entries())
}

// Draw renders the visible entries in z-order (stable: placement order
// breaks ties) through the camera's view matrix.
func (w *World) Draw(screen *ebiten.Image) {
	view := w.camera.computeViewMatrix()

	w.drawBuf = w.drawBuf[:0]
	for _, e := range w.registry.Entries() {
		if e.Visible {
			w.drawBuf = append(w.drawBuf, e)
		}
	}
	sort.SliceStable(w.drawBuf, func(i, j int) bool {
		return w.drawBuf[i].Z < w.drawBuf[j].Z
	})

	for _, e := range w.drawBuf {
		if d, ok := e.renderable.(Drawer); ok {
			d.Draw(screen, view)
		}
	}
}
