// Package worldbox is a sandbox world-building core for [Ebitengine].
//
// Worldbox provides the object pool, placement registry, viewport culling,
// and persistence bridge behind a build-anything sandbox: players drop
// generated sprites into a scrollable world, move, rotate, scale, and delete
// them, and save the result, all without per-placement allocation churn.
//
// # Quick start
//
// Create a [World] with a renderable factory and a viewport, then place
// entries through its [Registry]:
//
//	world := worldbox.NewWorld(factory, worldbox.Rect{Width: 640, Height: 480}, nil)
//	id, err := world.Registry().Place("tree", 100, 200, nil)
//
// Each frame, advance the world and draw it:
//
//	func (g *Game) Update() error         { g.world.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image)  { g.world.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Ownership model
//
// The [Registry] is the single owner of the mapping from instance id to
// renderable: exactly one active renderable per entry, never shared. The
// [Pool] owns only inactive renderables, keyed by resource, reused LIFO.
// Removing an entry returns its renderable to the pool; nothing is destroyed
// until the pool itself is cleared.
//
// Culling is a rendering optimization only: off-viewport entries are hidden,
// never removed.
//
// Worldbox is single-threaded, matching the engine's frame loop: all
// operations execute synchronously within one frame or input callback, in
// call order.
//
// [Ebitengine]: https://ebitengine.org
package worldbox
