package editor

import "github.com/chazu/slate/pkg/board"

// Zoom limits, matching what the canvas viewport can usefully display.
const (
	MinZoom = 0.25
	MaxZoom = 8.0
)

// Viewport is the affine map between world space (the infinite plane
// elements live on) and screen space. ScreenToWorld and WorldToScreen are
// exact inverses; hit-testing and placement-at-cursor depend on that
// round-trip fidelity.
type Viewport struct {
	Pan  board.Vec2
	Zoom float64
}

// NewViewport returns an identity viewport.
func NewViewport() Viewport { return Viewport{Zoom: 1} }

// ScreenToWorld maps a screen point into world space:
// world = (screen - pan) / zoom, component-wise.
func (v Viewport) ScreenToWorld(p board.Vec2) board.Vec2 {
	return board.Vec2{
		X: (p.X - v.Pan.X) / v.Zoom,
		Y: (p.Y - v.Pan.Y) / v.Zoom,
	}
}

// WorldToScreen is the exact inverse of ScreenToWorld.
func (v Viewport) WorldToScreen(w board.Vec2) board.Vec2 {
	return board.Vec2{
		X: w.X*v.Zoom + v.Pan.X,
		Y: w.Y*v.Zoom + v.Pan.Y,
	}
}

// PanBy shifts the viewport by a screen-space delta.
func (v *Viewport) PanBy(d board.Vec2) {
	v.Pan = v.Pan.Add(d)
}

// ZoomAt scales the zoom by factor, clamped to [MinZoom, MaxZoom], keeping
// the world point under the given screen point fixed.
func (v *Viewport) ZoomAt(screen board.Vec2, factor float64) {
	newZoom := v.Zoom * factor
	if newZoom < MinZoom {
		newZoom = MinZoom
	}
	if newZoom > MaxZoom {
		newZoom = MaxZoom
	}
	if newZoom == v.Zoom {
		return
	}
	f := newZoom / v.Zoom
	v.Pan = board.Vec2{
		X: screen.X - (screen.X-v.Pan.X)*f,
		Y: screen.Y - (screen.Y-v.Pan.Y)*f,
	}
	v.Zoom = newZoom
}
