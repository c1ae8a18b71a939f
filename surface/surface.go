// Package surface binds a host content box to a GPU device and tracks every
// handle a renderer acquires, so a single Close releases all of them.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrZeroSize is returned when the host has no measurable content box.
	ErrZeroSize = errors.New("surface: host has zero size")
	// ErrNoContext is returned when no drawing context can be acquired.
	ErrNoContext = errors.New("surface: no drawing context available")
	// ErrClosed is returned for allocations on a closed surface.
	ErrClosed = errors.New("surface: closed")
)

// Host is the element a renderer attaches to.
type Host interface {
	// Size returns the content box in pixels.
	Size() (w, h int)
}

// HostFunc adapts a function to Host.
type HostFunc func() (int, int)

// Size implements Host.
func (f HostFunc) Size() (int, int) { return f() }

// Shader is an opaque handle to a compiled program.
type Shader uint32

// Texture is an opaque handle to an uploaded texture.
type Texture uint32

// Quad is a textured rectangle in screen pixels (top-left origin).
type Quad struct {
	CenterX, CenterY float32
	Width, Height    float32
	// Rotation in radians, counter-clockwise as seen on screen.
	Rotation float32
	Tint     color.RGBA
}

// Device is the GPU abstraction the renderers draw through.
type Device interface {
	// Ready reports whether a drawing context exists.
	Ready() bool
	CompileShader(vertex, fragment string) (Shader, error)
	// SetFloats writes a float, vec2, vec3 or vec4 uniform depending on len(v).
	// Booleans are passed as 0 or 1 floats.
	SetFloats(s Shader, name string, v ...float32)
	UploadTexture(img image.Image) (Texture, error)
	TextureSize(t Texture) (w, h int)
	Clear(c color.RGBA)
	// DrawFullscreen runs the shader over a w x h rectangle at the origin.
	DrawFullscreen(s Shader, w, h int)
	// DrawQuad draws t inside q. A zero shader uses the default program.
	DrawQuad(t Texture, s Shader, q Quad)
	ReleaseShader(s Shader)
	ReleaseTexture(t Texture)
}

// Surface is the exclusive owner of the GPU resources a renderer creates.
type Surface struct {
	host Host
	dev  Device

	width, height int

	shaders  map[Shader]struct{}
	textures map[Texture]struct{}
	closed   bool
}

// New acquires a surface sized to the host content box.
func New(host Host, dev Device) (*Surface, error) {
	if host == nil {
		return nil, ErrZeroSize
	}
	w, h := host.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w (%dx%d)", ErrZeroSize, w, h)
	}
	if dev == nil || !dev.Ready() {
		return nil, ErrNoContext
	}
	return &Surface{
		host:     host,
		dev:      dev,
		width:    w,
		height:   h,
		shaders:  make(map[Shader]struct{}),
		textures: make(map[Texture]struct{}),
	}, nil
}

// Host returns the element the surface is bound to.
func (s *Surface) Host() Host { return s.host }

// Device returns the underlying device.
func (s *Surface) Device() Device { return s.dev }

// Size returns the current pixel dimensions.
func (s *Surface) Size() (w, h int) { return s.width, s.height }

// SetSize updates the pixel dimensions. Non-positive sizes are ignored.
func (s *Surface) SetSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = w, h
}

// Shader compiles a program owned by this surface.
func (s *Surface) Shader(vertex, fragment string) (Shader, error) {
	if s.closed {
		return 0, ErrClosed
	}
	sh, err := s.dev.CompileShader(vertex, fragment)
	if err != nil {
		return 0, fmt.Errorf("compiling shader: %w", err)
	}
	s.shaders[sh] = struct{}{}
	return sh, nil
}

// Texture uploads img as a texture owned by this surface.
func (s *Surface) Texture(img image.Image) (Texture, error) {
	if s.closed {
		return 0, ErrClosed
	}
	t, err := s.dev.UploadTexture(img)
	if err != nil {
		return 0, fmt.Errorf("uploading texture: %w", err)
	}
	s.textures[t] = struct{}{}
	return t, nil
}

// ReleaseTexture frees a texture before the surface closes.
func (s *Surface) ReleaseTexture(t Texture) {
	if _, ok := s.textures[t]; !ok {
		return
	}
	delete(s.textures, t)
	s.dev.ReleaseTexture(t)
}

// Live returns the number of GPU handles still held.
func (s *Surface) Live() int {
	return len(s.shaders) + len(s.textures)
}

// Closed reports whether Close has run.
func (s *Surface) Closed() bool { return s.closed }

// Close releases every tracked handle. Calling it again is a no-op.
func (s *Surface) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	for t := range s.textures {
		s.dev.ReleaseTexture(t)
	}
	for sh := range s.shaders {
		s.dev.ReleaseShader(sh)
	}
	clear(s.textures)
	clear(s.shaders)
}
