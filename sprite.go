package worldbox

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSource resolves a resource key to an already-loaded texture. The
// resolution must be synchronous: by the time a key reaches the pool, any
// network or decode work has already happened elsewhere.
type TextureSource interface {
	Texture(key ResourceKey) (*ebiten.Image, bool)
}

// TextureMap is a TextureSource backed by a plain map.
type TextureMap map[ResourceKey]*ebiten.Image

// Texture returns the image registered under key.
func (m TextureMap) Texture(key ResourceKey) (*ebiten.Image, bool) {
	img, ok := m[key]
	return img, ok
}

// Sprite is the ebiten-backed Renderable: a single textured quad with an
// attached static collision body.
type Sprite struct {
	key ResourceKey
	img *ebiten.Image

	x, y     float64
	rotation float64
	scaleX   float64
	scaleY   float64
	alpha    float64
	visible  bool

	interactive bool
	userData    any
	body        Body
	disposed    bool
}

// NewSpriteFactory adapts a TextureSource into the pool's renderable
// factory. Construction fails with ErrResourceUnavailable for keys the
// source cannot resolve.
func NewSpriteFactory(src TextureSource) Factory {
	return func(key ResourceKey, x, y float64) (Renderable, error) {
		img, ok := src.Texture(key)
		if !ok {
			return nil, fmt.Errorf("worldbox: texture for %q: %w", key, ErrResourceUnavailable)
		}
		s := &Sprite{
			key:     key,
			img:     img,
			x:       x,
			y:       y,
			scaleX:  1,
			scaleY:  1,
			alpha:   1,
			visible: true,
		}
		s.body.Enable(s.visualBounds())
		return s, nil
	}
}

// Key returns the resource key the sprite was constructed for.
func (s *Sprite) Key() ResourceKey {
	return s.key
}

// Body returns the sprite's collision body.
func (s *Sprite) Body() *Body {
	return &s.body
}

// visualBounds returns the conservative world AABB of the sprite's quad.
func (s *Sprite) visualBounds() Rect {
	w, h := s.Extent()
	return worldAABB(placementTransform(s.x, s.y, s.rotation, s.scaleX, s.scaleY), w, h)
}

// --- Renderable ---

func (s *Sprite) SetPosition(x, y float64) {
	s.x = x
	s.y = y
}

func (s *Sprite) SetRotation(radians float64) {
	s.rotation = radians
}

func (s *Sprite) SetScale(sx, sy float64) {
	s.scaleX = sx
	s.scaleY = sy
}

func (s *Sprite) SetVisible(visible bool) {
	s.visible = visible
}

func (s *Sprite) SetAlpha(alpha float64) {
	s.alpha = alpha
}

func (s *Sprite) ResetVisualState() {
	s.alpha = 1
}

func (s *Sprite) SetPhysicsEnabled(enabled bool) {
	if enabled {
		s.body.Enable(s.visualBounds())
	} else {
		s.body.Disable()
	}
}

func (s *Sprite) SyncBodyToBounds() {
	s.body.Resize(s.visualBounds())
}

func (s *Sprite) Extent() (w, h float64) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Sprite) SetUserData(data any) {
	s.userData = data
}

func (s *Sprite) UserData() any {
	return s.userData
}

// StopAnimation is a no-op: static sprites carry no animation state. Kept so
// the pool's release discipline holds for animated implementations.
func (s *Sprite) StopAnimation() {}

func (s *Sprite) SetInteractive(enabled bool) {
	s.interactive = enabled
}

// Interactive reports whether the sprite accepts input.
func (s *Sprite) Interactive() bool {
	return s.interactive
}

func (s *Sprite) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.img = nil
	s.userData = nil
	s.body.Disable()
}

// IsDisposed reports whether the sprite has been disposed.
func (s *Sprite) IsDisposed() bool {
	return s.disposed
}

// --- Drawer ---

// Draw renders the sprite to screen under the given camera view matrix.
func (s *Sprite) Draw(screen *ebiten.Image, view [6]float64) {
	if !s.visible || s.disposed || s.img == nil {
		return
	}
	local := placementTransform(s.x, s.y, s.rotation, s.scaleX, s.scaleY)
	m := multiplyAffine(view, local)

	var op ebiten.DrawImageOptions
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	op.ColorScale.ScaleAlpha(float32(s.alpha))
	screen.DrawImage(s.img, &op)
}
