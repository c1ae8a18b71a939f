// Package camera provides the perspective camera the gallery is viewed
// through: world units on the z=0 plane map to screen pixels.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera looks down -Z at the origin from (0, 0, Z).
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Z is the camera distance from the z=0 plane.
	Z float32

	Near, Far float32

	// Screen dimensions in pixels.
	ScreenW, ScreenH float32
}

// New creates a camera with a 45 degree field of view at z=20.
func New(screenW, screenH float32) *Camera {
	return &Camera{
		FOV:     45,
		Z:       20,
		Near:    0.1,
		Far:     100,
		ScreenW: screenW,
		ScreenH: screenH,
	}
}

// Aspect returns the screen aspect ratio.
func (c *Camera) Aspect() float32 {
	if c.ScreenH <= 0 {
		return 1
	}
	return c.ScreenW / c.ScreenH
}

// Viewport returns the size of the visible z=0 plane in world units.
func (c *Camera) Viewport() (w, h float32) {
	fov := float64(mgl32.DegToRad(c.FOV))
	h = float32(2 * math.Tan(fov/2) * float64(c.Z))
	return h * c.Aspect(), h
}

// Resize updates the screen dimensions. Non-positive sizes are ignored.
func (c *Camera) Resize(screenW, screenH float32) {
	if screenW <= 0 || screenH <= 0 {
		return
	}
	c.ScreenW = screenW
	c.ScreenH = screenH
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{0, 0, c.Z}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// WorldToScreen projects a world point to screen pixels (top-left origin).
// ok is false for points behind the camera or outside the depth range.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (sx, sy float32, ok bool) {
	win := mgl32.Project(p, c.View(), c.Projection(), 0, 0, int(c.ScreenW), int(c.ScreenH))
	if win.Z() < 0 || win.Z() > 1 {
		return 0, 0, false
	}
	return win.X(), c.ScreenH - win.Y(), true
}

// ScreenToWorld maps a screen pixel onto the z=0 plane.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	vw, vh := c.Viewport()
	wx = (sx/c.ScreenW - 0.5) * vw
	wy = (0.5 - sy/c.ScreenH) * vh
	return wx, wy
}

// PixelsPerUnit returns the screen scale of one world unit on the z=0 plane.
func (c *Camera) PixelsPerUnit() float32 {
	_, vh := c.Viewport()
	if vh == 0 {
		return 0
	}
	return c.ScreenH / vh
}

// IsVisible returns true if a span of half-width radius centred at world x
// on the z=0 plane could be visible (conservative check for culling).
func (c *Camera) IsVisible(wx, radius float32) bool {
	vw, _ := c.Viewport()
	return absf(wx) <= vw/2+radius
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
