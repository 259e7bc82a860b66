package worldbox

// Renderable is the capability set the pool and registry require from a
// visual+physics instance. The core never touches the engine directly; an
// adapter (see [Sprite]) implements Renderable around whatever the host
// engine provides.
type Renderable interface {
	// SetPosition moves the renderable to world coordinates (x, y).
	SetPosition(x, y float64)
	// SetRotation sets the rotation in radians.
	SetRotation(radians float64)
	// SetScale sets non-uniform scale factors.
	SetScale(sx, sy float64)
	// SetVisible shows or hides the renderable. Used by the culling pass.
	SetVisible(visible bool)
	// SetAlpha sets opacity in [0, 1].
	SetAlpha(alpha float64)
	// ResetVisualState restores full opacity, clears any tint, and stops any
	// visual effect so the renderable is indistinguishable from a freshly
	// constructed one.
	ResetVisualState()
	// SetPhysicsEnabled enables or disables the collision body. Enabling
	// restores an immovable, non-gravity body with zero velocity.
	SetPhysicsEnabled(enabled bool)
	// SyncBodyToBounds resizes the collision body to the current visual
	// bounds (position, scale, and rotation applied conservatively).
	SyncBodyToBounds()
	// Extent returns the unscaled width and height of the visual content.
	// (0, 0) means the size is unknown; such renderables are never culled.
	Extent() (w, h float64)
	// SetUserData attaches free-form data; nil clears it.
	SetUserData(data any)
	// UserData returns the attached data, or nil.
	UserData() any
	// StopAnimation halts any in-progress animation.
	StopAnimation()
	// SetInteractive enables or disables input/interactivity.
	SetInteractive(enabled bool)
	// Dispose permanently destroys the renderable. Called only on pool
	// teardown; a disposed renderable is never reused.
	Dispose()
}

// Factory constructs a new renderable bound to key at world position (x, y),
// with an enabled immovable non-gravity collision body. Returns an error
// wrapping [ErrResourceUnavailable] when the key cannot be resolved.
type Factory func(key ResourceKey, x, y float64) (Renderable, error)
